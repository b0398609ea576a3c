// Package storage provides the key-value collaborators the settings store persists through.
// Every backend stores one opaque JSON string per key and never interprets it.
package storage

import (
	"context"
	"errors"
)

// ErrClosed is returned by a backend used after Close
var ErrClosed = errors.New("storage closed")

// Storage is a string-keyed value store
type Storage interface {
	// Get returns the raw value and whether the key exists
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the value of key
	Set(ctx context.Context, key string, value []byte) error
}

// Backend is a Storage with a lifecycle and a health probe
type Backend interface {
	Storage
	Name() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Status renders a backend's health the way the status endpoint reports it
func Status(ctx context.Context, b Backend) (string, bool) {
	if err := b.Ping(ctx); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}
