// Package storage provides named text blob persistence for the
// consolidation pipeline.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a named blob does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store defines blocking read/write/delete of named text blobs. Names are
// slash-separated paths; WriteText creates missing parents.
type Store interface {
	ReadText(ctx context.Context, name string) (string, error)
	WriteText(ctx context.Context, name, content string) error
	DeleteText(ctx context.Context, name string) error
	Close() error
}
