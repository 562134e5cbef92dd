// Package blob stores uploaded document files. Metadata lives in the
// record store; only the raw bytes go here, keyed by an opaque object
// key embedded in the document's file URL.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no object exists under the given key.
var ErrNotFound = errors.New("object not found")

// Store is the object storage used for uploaded files.
type Store interface {
	// Upload stores the object under key. Size may be -1 when unknown.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Download opens the object for reading. The caller closes it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}
