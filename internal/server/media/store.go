// Package media stores confirmed upload payloads and resolves them to URLs
// that can be fetched back.
package media

import "context"

// Object is a stored payload.
type Object struct {
	ContentType string
	Data        []byte
}

type Store interface {
	// Save writes data under key and returns a URL that dereferences to it.
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	// Open returns the object stored under key, or common.ErrMediaNotFound.
	Open(ctx context.Context, key string) (*Object, error)
}
