// Package repository persists unlock sets and gameweek summaries behind a
// small key-value interface with in-memory and SQLite backends.
package repository

import "context"

// Pair is one key-value entry.
type Pair struct {
	Key   string
	Value []byte
}

// Store is an ordered byte key-value store.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put inserts or replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error
	// List returns every pair whose key starts with prefix, in key order.
	List(ctx context.Context, prefix string) ([]Pair, error)
	// Close releases the backend.
	Close() error
}
