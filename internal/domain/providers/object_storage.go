package providers

import (
	"context"
	"io"

	"github.com/medoraclinic/medora-site/backend/internal/domain/entities"
)

// PutOptions controls how an object is written
type PutOptions struct {
	ContentType  string
	CacheControl string
}

// ObjectStorage is the image bucket. Keys are used verbatim.
type ObjectStorage interface {
	// Put writes body at key, overwriting any existing object, and returns
	// the object's public URL
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (string, error)

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// List returns objects under prefix, skipping folder markers
	List(ctx context.Context, prefix string) ([]entities.StoredObject, error)

	// PublicURL returns the public URL of key without touching the bucket
	PublicURL(key string) string
}
