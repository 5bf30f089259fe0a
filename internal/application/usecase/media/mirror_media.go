package media

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	"github.com/khoahotran/portfolio-admin/internal/application/service"
	"github.com/khoahotran/portfolio-admin/internal/domain/media"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

// MirrorMediaUseCase keeps the CDN copy of stored profile media in step with
// the file store and drops cached profile views after an update.
type MirrorMediaUseCase struct {
	store    service.FileStore
	uploader service.Uploader
	cache    profile.ViewCache
	folder   string
	logger   logger.Logger
}

// NewMirrorMediaUseCase accepts a nil uploader or cache; the matching events
// are then acknowledged without work.
func NewMirrorMediaUseCase(store service.FileStore, u service.Uploader, cache profile.ViewCache, folder string, log logger.Logger) *MirrorMediaUseCase {
	return &MirrorMediaUseCase{store: store, uploader: u, cache: cache, folder: folder, logger: log}
}

func (uc *MirrorMediaUseCase) Execute(ctx context.Context, payload event.ProfileEventPayload) error {
	l := uc.logger.With(zap.String("owner_id", payload.OwnerID.String()), zap.String("event_type", string(payload.EventType)))
	l.Info("Worker UseCase processing profile event")

	switch payload.EventType {
	case event.ProfileEventFileStored:
		return uc.mirror(ctx, l, payload.Path)
	case event.ProfileEventFileReclaimed:
		return uc.purge(ctx, l, payload.Path)
	case event.ProfileEventProfileUpdated:
		return uc.evict(ctx, payload.OwnerID)
	default:
		l.Debug("Event needs no media work, skipping")
		return nil
	}
}

func (uc *MirrorMediaUseCase) mirror(ctx context.Context, l logger.Logger, p string) error {
	if uc.uploader == nil {
		return nil
	}
	bucket, name, err := media.ParsePublicPath(p)
	if err != nil {
		l.Warn("Stored event carries invalid path, skipping", zap.String("path", p))
		return nil
	}

	f, err := uc.store.Open(ctx, p)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			l.Warn("Stored file already gone, skipping", zap.String("path", p))
			return nil
		}
		return err
	}
	defer f.Close()

	url, err := uc.uploader.Upload(ctx, f, uc.remoteFolder(bucket), publicID(name))
	if err != nil {
		return apperror.NewInternal("failed to mirror media to CDN", err)
	}
	l.Info("Mirrored media to CDN", zap.String("path", p), zap.String("url", url))
	return nil
}

func (uc *MirrorMediaUseCase) purge(ctx context.Context, l logger.Logger, p string) error {
	if uc.uploader == nil {
		return nil
	}
	bucket, name, err := media.ParsePublicPath(p)
	if err != nil {
		l.Warn("Reclaimed event carries invalid path, skipping", zap.String("path", p))
		return nil
	}

	id := path.Join(uc.remoteFolder(bucket), publicID(name))
	if err := uc.uploader.Delete(ctx, id, ResourceType(bucket)); err != nil {
		return apperror.NewInternal("failed to delete CDN copy", err)
	}
	l.Info("Deleted CDN copy", zap.String("public_id", id))
	return nil
}

func (uc *MirrorMediaUseCase) evict(ctx context.Context, ownerID uuid.UUID) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Invalidate(ctx, ownerID)
}

func (uc *MirrorMediaUseCase) remoteFolder(bucket media.Bucket) string {
	return path.Join(uc.folder, string(bucket))
}

// ResourceType is the CDN resource type files of a bucket are uploaded as.
func ResourceType(bucket media.Bucket) string {
	switch bucket {
	case media.BucketImages, media.BucketPDFs:
		return "image"
	case media.BucketVideos:
		return "video"
	default:
		return "raw"
	}
}

func publicID(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
