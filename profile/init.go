package profile

// Config yields the profiler mode, output directory and quiet flag.
type Config func() (mode, path string, quiet bool)

// Start starts a profiler in the configured mode writing to the configured
// directory. An empty or unknown mode, or a build without the pprof tag,
// yields a profiler whose Stop does nothing.
func (c Config) Start() interface{ Stop() } {
	s := c.settings()
	if s.mode == "" {
		return ignore{}
	}

	return start(s.mode, s.path, s.quiet)
}

// WithMode returns a functional option for setting a profiler's mode.
func WithMode(mode string) func(Config) Config {
	return update(func(s *settings) { s.mode = mode })
}

// WithPath returns a functional option for setting a profiler's output path.
func WithPath(path string) func(Config) Config {
	return update(func(s *settings) { s.path = path })
}

// WithQuiet returns a functional option for setting a profiler's quiet flag.
func WithQuiet(quiet bool) func(Config) Config {
	return update(func(s *settings) { s.quiet = quiet })
}

type settings struct {
	mode, path string
	quiet      bool
}

func (c Config) settings() settings {
	if c == nil {
		return settings{}
	}

	mode, path, quiet := c()

	return settings{mode: mode, path: path, quiet: quiet}
}

func update(set func(*settings)) func(Config) Config {
	return func(c Config) Config {
		s := c.settings()
		set(&s)

		return func() (string, string, bool) { return s.mode, s.path, s.quiet }
	}
}

type ignore struct{}

func (ignore) Stop() {}
