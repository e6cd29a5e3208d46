package dispatcher

import "time"

// Config holds dispatcher configuration options.
type Config struct {
	// EnableMetrics enables dispatch timing and statistics collection.
	EnableMetrics bool

	// RecoverFromPanic wraps handler execution in panic recovery.
	RecoverFromPanic bool

	// SlowCommandThreshold logs a warning for commands that take longer.
	// Zero disables the warning.
	SlowCommandThreshold time.Duration
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableMetrics:        false,
		RecoverFromPanic:     true,
		SlowCommandThreshold: 250 * time.Millisecond,
	}
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}

// WithSlowCommandThreshold returns a copy of the config with the slow
// command threshold set.
func (c Config) WithSlowCommandThreshold(d time.Duration) Config {
	c.SlowCommandThreshold = d
	return c
}
