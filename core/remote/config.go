package remote

// Config holds configuration for the remote catalog store.
type Config struct {
	// BaseURL is the root URL of the catalog REST API.
	BaseURL string `mapstructure:"base_url" default:"http://localhost:8080"`
	// TimeoutSeconds bounds connection setup and the wait for response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// RateLimit caps outgoing requests per second. Zero disables throttling.
	RateLimit float64 `mapstructure:"rate_limit" default:"0"`
	// Burst is the limiter bucket size when RateLimit is set.
	Burst int `mapstructure:"burst" default:"1"`
	// Concurrency bounds parallel link/unlink calls during reconciliation. Zero means unbounded.
	Concurrency int `mapstructure:"concurrency" default:"8"`
	// DeleteNotFoundOK treats a 404 answer to DELETE as a successful delete.
	DeleteNotFoundOK bool `mapstructure:"delete_not_found_ok" default:"true"`
}
