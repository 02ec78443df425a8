package config

import (
	"reflect"
	"strings"

	"github.com/SheepYY039/snipeit-netbox/core/database"
	"github.com/SheepYY039/snipeit-netbox/core/logger"
	"github.com/SheepYY039/snipeit-netbox/core/netbox"
	"github.com/SheepYY039/snipeit-netbox/core/server"
	"github.com/SheepYY039/snipeit-netbox/core/snipe"
	"github.com/SheepYY039/snipeit-netbox/core/storage"
	"github.com/SheepYY039/snipeit-netbox/feature/sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Snipe holds configuration for the Snipe-IT source system.
	Snipe snipe.Config `mapstructure:"snipe"`
	// Netbox holds configuration for the NetBox target system.
	Netbox netbox.Config `mapstructure:"netbox"`
	// Sync holds the operator settings for the reconciliation pass.
	Sync sync.Config `mapstructure:"sync"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional run journal database.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the optional report archive storage.
	Storage storage.Config `mapstructure:"storage"`
	// Server holds configuration for the report HTTP server.
	Server server.Config `mapstructure:"server"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SNIPE_URL -> snipe.url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
