package storage

import "context"

// BlobStore — object upload plus time-bounded download URLs
type BlobStore interface {
	Upload(ctx context.Context, object string, data []byte) error
	SignedURL(ctx context.Context, object string) (string, error)
}
