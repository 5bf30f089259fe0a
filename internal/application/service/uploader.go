package service

import (
	"context"
	"io"
)

// Uploader mirrors files to a remote media CDN.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string, resourceType string) error
}
