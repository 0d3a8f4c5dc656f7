package server

// Config holds configuration for the admin HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8081"`
	// ReadOnly disables every mutating catalog route.
	ReadOnly bool `mapstructure:"read_only" default:"false"`
	// BodyLimitKB caps request bodies.
	BodyLimitKB int `mapstructure:"body_limit_kb" default:"256"`
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// BodyLimit returns the body limit in bytes, falling back to 256 KiB.
func (c Config) BodyLimit() int {
	if c.BodyLimitKB <= 0 {
		return 256 * 1024
	}
	return c.BodyLimitKB * 1024
}
