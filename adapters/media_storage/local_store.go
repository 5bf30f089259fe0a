package media_storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/internal/application/service"
	"github.com/khoahotran/portfolio-admin/internal/domain/media"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

type localStore struct {
	fs     afero.Fs
	logger logger.Logger
}

// NewLocalStore stores files on disk below root. root itself is created if missing.
func NewLocalStore(root string, log logger.Logger) (service.FileStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root %q: %w", root, err)
	}
	log.Info("Local media storage ready", zap.String("root", root))
	return NewLocalStoreFs(afero.NewBasePathFs(osFs, root), log), nil
}

// NewLocalStoreFs wraps an already rooted filesystem.
func NewLocalStoreFs(fsys afero.Fs, log logger.Logger) service.FileStore {
	return &localStore{fs: fsys, logger: log}
}

func (s *localStore) EnsureBuckets(ctx context.Context) error {
	for _, b := range media.Buckets {
		if err := s.fs.MkdirAll(string(b), 0o755); err != nil {
			return fmt.Errorf("create bucket %q: %w", b, err)
		}
	}
	return nil
}

func (s *localStore) Save(ctx context.Context, bucket media.Bucket, name string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	publicPath := media.PublicPath(bucket, name)
	if _, _, err := media.ParsePublicPath(publicPath); err != nil {
		return "", apperror.NewInternal("refusing to store file outside media buckets", err)
	}

	f, err := s.fs.OpenFile(path.Join(string(bucket), name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", apperror.NewInternal("failed to create media file", err)
	}

	written, err := io.Copy(f, body)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(path.Join(string(bucket), name))
		return "", apperror.NewInternal("failed to write media file", err)
	}

	s.logger.Debug("Stored media file", zap.String("path", publicPath), zap.Int64("bytes", written))
	return publicPath, nil
}

func (s *localStore) Open(ctx context.Context, publicPath string) (io.ReadCloser, error) {
	bucket, name, err := media.ParsePublicPath(publicPath)
	if err != nil {
		return nil, apperror.NewInvalidInput("invalid media path", err)
	}
	f, err := s.fs.Open(path.Join(string(bucket), name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperror.NewNotFound("media file", publicPath)
		}
		return nil, apperror.NewInternal("failed to open media file", err)
	}
	return f, nil
}

func (s *localStore) Remove(ctx context.Context, publicPath string) error {
	bucket, name, err := media.ParsePublicPath(publicPath)
	if err != nil {
		return err
	}
	err = s.fs.Remove(path.Join(string(bucket), name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperror.NewInternal("failed to remove media file", err)
	}
	return nil
}
