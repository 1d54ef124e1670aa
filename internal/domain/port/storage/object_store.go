package storage

import (
	"context"
	"time"
)

// ObjectStore is the facade over the external binary store. All operations may
// fail transiently; the executor treats failures as retryable while the
// admission path treats an upload failure as fatal (no database writes happen
// before the upload succeeds).
type ObjectStore interface {
	// Upload stores data at the given bucket path with the given content type
	Upload(ctx context.Context, path string, data []byte, contentType string) error

	// Download retrieves the object at path
	Download(ctx context.Context, path string) ([]byte, error)

	// Delete removes the object at path, reporting whether it was removed
	Delete(ctx context.Context, path string) (bool, error)

	// SignedURL produces a time-limited access URL for a private object.
	// Signed URLs are generated on demand and never persisted.
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
