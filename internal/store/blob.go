package store

import "context"

// BlobStore persists transformed image bytes in durable object
// storage. The returned path is what gets recorded on the post row.
type BlobStore interface {
	// Save writes data under the given object path with the given
	// content type and returns the stored path.
	Save(ctx context.Context, objectPath string, data []byte, contentType string) (string, error)
}
