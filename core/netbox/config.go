package netbox

// Config holds configuration for the NetBox API connection.
type Config struct {
	// URL is the base URL of the NetBox instance (without /api).
	URL string `mapstructure:"url" default:""`
	// Token is the API token for authentication.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds is the HTTP request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
