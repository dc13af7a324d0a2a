package aggregate

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithAllDayHours sets the workday-equivalent credited for all-day events.
func WithAllDayHours(hours float64) Option {
	return func(a *Aggregator) {
		if hours > 0 {
			a.allDayHours = hours
		}
	}
}
