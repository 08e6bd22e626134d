package organizer

// Option configures an [Organizer].
type Option func(*options)

type options struct {
	isStrict *bool
}

// WithStrict overrides the strict mode of the configuration.
//
// In strict mode, a chart without any data to render is an error. Otherwise, it is skipped with a warning.
func WithStrict(enabled bool) Option {
	return func(o *options) {
		o.isStrict = &enabled
	}
}

func optionsWithDefaults(opts []Option) options {
	var o options
	for _, apply := range opts {
		apply(&o)
	}

	return o
}
