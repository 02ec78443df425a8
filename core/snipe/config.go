package snipe

// Config holds configuration for the Snipe-IT API connection.
type Config struct {
	// URL is the base URL of the Snipe-IT instance (without /api/v1).
	URL string `mapstructure:"url" default:""`
	// Token is the API token for bearer authentication.
	Token string `mapstructure:"token" default:""`
	// PageSize is the number of rows fetched per page.
	PageSize int `mapstructure:"page_size" default:"200"`
	// TimeoutSeconds is the HTTP request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
