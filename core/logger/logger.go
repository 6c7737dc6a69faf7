package logger

import (
	"io"
	"log/slog"
	"os"
)

// config collects logger construction settings.
type config struct {
	level  slog.Level
	json   bool
	output io.Writer
	attrs  []slog.Attr
}

// Option configures New.
type Option func(*config)

// WithDevelopment configures text output at debug level, tagged with the
// application name.
func WithDevelopment(app string) Option {
	return func(c *config) {
		c.level = slog.LevelDebug
		c.json = false
		if app != "" {
			c.attrs = append(c.attrs, slog.String("app", app))
		}
	}
}

// WithProduction configures JSON output at info level, tagged with the
// application name.
func WithProduction(app string) Option {
	return func(c *config) {
		c.level = slog.LevelInfo
		c.json = true
		if app != "" {
			c.attrs = append(c.attrs, slog.String("app", app))
		}
	}
}

// WithLevel overrides the minimum log level.
func WithLevel(level slog.Level) Option {
	return func(c *config) {
		c.level = level
	}
}

// WithJSONFormatter forces JSON output regardless of environment preset.
func WithJSONFormatter() Option {
	return func(c *config) {
		c.json = true
	}
}

// WithOutput redirects log output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithAttr attaches a static attribute to every record.
func WithAttr(attr slog.Attr) Option {
	return func(c *config) {
		c.attrs = append(c.attrs, attr)
	}
}

// New creates a slog.Logger from the given options. Without options it
// produces a text logger at info level on stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:  slog.LevelInfo,
		output: os.Stdout,
	}

	for _, opt := range opts {
		opt(c)
	}

	handlerOpts := &slog.HandlerOptions{Level: c.level}

	var handler slog.Handler
	if c.json {
		handler = slog.NewJSONHandler(c.output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(c.output, handlerOpts)
	}

	if len(c.attrs) > 0 {
		handler = handler.WithAttrs(c.attrs)
	}

	return slog.New(handler)
}
