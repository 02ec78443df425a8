package database

// Config holds configuration for the run journal database connection.
// The journal is optional: an empty Host disables it.
type Config struct {
	// Host is the database host. Empty disables the journal.
	Host string `mapstructure:"host" default:""`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name.
	Name string `mapstructure:"name" default:"snipenetbox"`
	// TimeoutSeconds is the connection and I/O timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}

// Enabled reports whether a journal database is configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}
