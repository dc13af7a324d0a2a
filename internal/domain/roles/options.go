package roles

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithWeeklyHoursCap bounds the sum of generated roles' weekly hours to
// the overlap-adjusted delegable total for the audit.
func WithWeeklyHoursCap(hours float64) Option {
	return func(e *Engine) {
		if hours > 0 {
			e.weeklyHoursCap = hours
		}
	}
}

// WithIDGenerator replaces the role id generator. Tests use this for
// stable ids.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}
