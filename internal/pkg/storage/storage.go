// Package storage abstracts the object store holding uploaded files. The
// production backend is a GCS bucket; a local-disk backend covers
// development and tests.
package storage

import (
	"context"
	"io"
)

type Store interface {
	Put(ctx context.Context, key string, r io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
