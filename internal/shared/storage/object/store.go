package object

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for storage keys that escape the store root.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore defines the contract for saving and retrieving binary objects.
type ObjectStore interface {
	// Save stores r under the owner's namespace with a random prefix and
	// returns the generated key, the byte count and the sniffed content type.
	Save(ctx context.Context, owner string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey stores r at an exact key, replacing any previous object.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
