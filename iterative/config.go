package iterative

// Config bounds an iterative solve: stop once the relative residual
// ‖Ax-b‖/‖b‖ falls below Tolerance, or after MaxIterations, whichever
// comes first.
type Config struct {
	Tolerance     float64
	MaxIterations int
	// HistoryCap is not read by CG or Jacobi: they record into whatever
	// *diagnostics.History the caller passes, whose own cap (see
	// diagnostics.NewHistory) bounds the samples retained.
	HistoryCap int
}

// DefaultConfig returns the conservative defaults used when a caller
// supplies a zero-value Config.
func DefaultConfig() Config {
	return Config{
		Tolerance:     1e-8,
		MaxIterations: 1000,
		HistoryCap:    256,
	}
}

func (c Config) withDefaults() Config {
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-8
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 1000
	}
	return c
}
