package kernel

// Config selects the kernel backend used by DotWithBackend/AxpyWithBackend.
// The zero value is BackendScalar, matching the "ship a correct
// scalar reference first" default.
type Config struct {
	Backend Backend
}

// Option configures a Config.
type Option func(*Config)

// WithSIMD enables (or disables) the go-highway SIMD backend for Dot and
// Axpy. Disabled by default.
func WithSIMD(enabled bool) Option {
	return func(c *Config) {
		if enabled {
			c.Backend = BackendSIMD
		} else {
			c.Backend = BackendScalar
		}
	}
}

// NewConfig builds a Config with the given options applied, defaulting to
// BackendScalar.
func NewConfig(opts ...Option) Config {
	cfg := Config{Backend: BackendScalar}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
