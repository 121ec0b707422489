package core

import (
	"context"
	"io"
)

type (
	// StoredFile describes an object durably written to the file store.
	StoredFile struct {
		Path      string // object path within the store
		PublicURL string // deterministic publicly-readable URL
	}

	// FileStorage is the blob/object store boundary.
	// Writes are single-shot: one write, then read-only; a failed write
	// surfaces as an error with no retry.
	FileStorage interface {
		// Save durably writes the object and makes it publicly readable.
		Save(ctx context.Context, path, contentType string, content io.Reader) (StoredFile, error)
		// Exists reports whether an object backs the given path.
		Exists(ctx context.Context, path string) (bool, error)
		// Open returns the object's byte stream.
		Open(ctx context.Context, path string) (io.ReadCloser, error)
	}
)
