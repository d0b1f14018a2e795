package storage

import (
	"context"
	"io"
)

// ObjectStorage abstracts where uploaded attachments land. Put returns a
// URL the client can embed in message file parts.
type ObjectStorage interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
