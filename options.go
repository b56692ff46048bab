package geocatalog

import (
	"log/slog"
)

type options struct {
	logger                  *Logger
	scratchDir              string
	nullPlaceholder         string
	maxConcurrentRetrievals int64
}

// Option configures Catalog construction.
type Option func(*options)

// WithLogger configures structured logging for catalog operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithScratchDir sets the scratch root under which per-retrieval
// directories are created. Defaults to "temp".
func WithScratchDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.scratchDir = dir
		}
	}
}

// WithNullPlaceholder sets the placeholder written for null attribute
// values in materialized tables. Defaults to "-".
func WithNullPlaceholder(placeholder string) Option {
	return func(o *options) {
		o.nullPlaceholder = placeholder
	}
}

// WithMaxConcurrentRetrievals bounds how many RetrieveDataset calls
// may fetch and compile at the same time. Zero (the default) means
// unbounded.
func WithMaxConcurrentRetrievals(n int64) Option {
	return func(o *options) {
		o.maxConcurrentRetrievals = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:          NoopLogger(),
		scratchDir:      "temp",
		nullPlaceholder: "-",
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
