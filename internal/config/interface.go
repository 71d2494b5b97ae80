package config

import "context"

// RawPlant is one plant definition as read from a file, before validation.
type RawPlant struct {
	Name   string
	Source string // file the definition came from
	Values map[string]any
}

// Loader is the interface for a format-specific plant file loader.
type Loader interface {
	// Load reads every file it understands under the given paths and
	// returns the plant definitions found, in a stable order.
	Load(ctx context.Context, paths ...string) ([]*RawPlant, error)
}
