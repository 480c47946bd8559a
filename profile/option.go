//go:build pprof

package profile

// Option adjusts the profiler options collected in a control.
type Option func(control) control

func apply(c control, opts ...Option) control {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

func newControl(opts ...Option) control {
	return apply(control{}, opts...)
}
