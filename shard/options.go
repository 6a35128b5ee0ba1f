package shard

import "log/slog"

// Option configures a Cursor.
type Option func(*config)

type config struct {
	bufferSize int
	logger     *slog.Logger
}

func defaultConfig() config {
	return config{
		bufferSize: 64 * 1024,
		logger:     slog.Default(),
	}
}

// WithBufferSize sets the read buffer size per file (default: 64 KiB).
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
