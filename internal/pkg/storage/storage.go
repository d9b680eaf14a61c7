package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Get when nothing is stored under the path.
var ErrNotExist = errors.New("stored object does not exist")

// ErrInvalidPath is returned for paths that escape the storage root.
var ErrInvalidPath = errors.New("invalid storage path")

// Storage is the blob store behind category icons.
// Paths are slash-separated and relative to the store root.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
}
