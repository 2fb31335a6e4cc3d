package backoff

import "log/slog"

// config holds the loop configuration of one retry call.
type config struct {
	notify  Notify
	sleeper Sleeper
	logger  *slog.Logger
}

// Option configures a retry call.
type Option func(*config)

// WithNotify sets a hook that is called before each wait.
func WithNotify(fn Notify) Option {
	return func(c *config) {
		c.notify = fn
	}
}

// WithSleeper sets how the loop waits between attempts. Useful for testing.
// When Sleep fails, Retry returns the last error and RetryContext a
// *CanceledError.
func WithSleeper(s Sleeper) Option {
	return func(c *config) {
		c.sleeper = s
	}
}

// WithLogger sets the logger that reports failures of the notify hook.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// package-level defaults to avoid allocation
var (
	defaultSleeper = SystemClock{}
	discardLogger  = slog.New(slog.DiscardHandler)
)

func newConfig(opts []Option) config {
	cfg := config{
		sleeper: defaultSleeper,
		logger:  discardLogger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sleeper == nil {
		cfg.sleeper = defaultSleeper
	}
	if cfg.logger == nil {
		cfg.logger = discardLogger
	}
	return cfg
}
