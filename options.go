// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ijson

import (
	"fmt"
	"log/slog"
)

const (
	// DefaultMaxDepth bounds the nesting of arrays and objects.
	DefaultMaxDepth = 512
)

type config struct {
	source       string
	maxDepth     int
	maxInputSize int
	logger       *slog.Logger
}

func defaultConfig() config {
	return config{
		maxDepth: DefaultMaxDepth,
	}
}

// Option configures a call to Parse.
type Option func(c *config) error

// WithSource sets the name reported in syntax errors and diagnostics.
func WithSource(name string) Option {
	return func(c *config) error {
		c.source = name
		return nil
	}
}

// WithMaxDepth limits how deeply arrays and objects may nest.
// The root container is depth 1.
func WithMaxDepth(depth int) Option {
	return func(c *config) error {
		if depth < 1 {
			return fmt.Errorf("max depth must be positive: got %d", depth)
		}
		c.maxDepth = depth
		return nil
	}
}

// WithMaxInputSize rejects input longer than size bytes.
// Zero means no limit.
func WithMaxInputSize(size int) Option {
	return func(c *config) error {
		if size < 0 {
			return fmt.Errorf("max input size must not be negative: got %d", size)
		}
		c.maxInputSize = size
		return nil
	}
}

// WithLogger enables debug tracing of the parse. A nil logger is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
