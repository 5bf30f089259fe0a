package service

import (
	"context"
	"io"

	"github.com/khoahotran/portfolio-admin/internal/domain/media"
)

// FileStore persists uploaded binaries under media buckets. Paths handed in
// and out are public paths as built by media.PublicPath.
type FileStore interface {
	EnsureBuckets(ctx context.Context) error
	Save(ctx context.Context, bucket media.Bucket, name string, body io.Reader) (string, error)
	Open(ctx context.Context, publicPath string) (io.ReadCloser, error)
	// Remove deletes a stored file. A file that is already gone is not an error.
	Remove(ctx context.Context, publicPath string) error
}
