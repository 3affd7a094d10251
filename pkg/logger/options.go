package logger

import (
	"io"
	"log/slog"
)

// Option configures a Logger created with New.
type Option func(*config)

// WithDebug sets the log level to Debug when true, Info otherwise.
// Wired to the global --debug flag on the minutes CLI.
func WithDebug(debug bool) Option {
	return func(c *config) {
		if debug {
			c.level = slog.LevelDebug
		} else {
			c.level = slog.LevelInfo
		}
	}
}

// WithPretty enables the charmbracelet/log handler for colorized output
// in interactive commands.
func WithPretty(pretty bool) Option {
	return func(c *config) {
		c.pretty = pretty
	}
}

// WithJSON enables slog's JSON handler. The serve command logs this way
// so records stay machine-parseable.
func WithJSON(json bool) Option {
	return func(c *config) {
		c.json = json
	}
}

// WithWriter sets the output writers; several are combined via
// io.MultiWriter. Defaults to os.Stdout.
func WithWriter(w ...io.Writer) Option {
	return func(c *config) {
		c.writers = w
	}
}

// WithSource includes source file:line in records. Serve enables it
// together with debug logging.
func WithSource(source bool) Option {
	return func(c *config) {
		c.source = source
	}
}
