package profile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	"github.com/khoahotran/portfolio-admin/internal/application/service"
	"github.com/khoahotran/portfolio-admin/internal/domain/media"
	"github.com/khoahotran/portfolio-admin/internal/domain/profile"
	"github.com/khoahotran/portfolio-admin/internal/domain/user"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

var tracer = otel.Tracer("profile_usecase")

// ProfileUseCase does not serialise updates per owner: two concurrent
// updates may both read the same snapshot and the later write wins.
type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	store       service.FileStore
	cache       profile.ViewCache
	events      service.EventPublisher
	logger      logger.Logger
	now         func() time.Time
}

// NewProfileUseCase accepts nil cache and events; both are then skipped.
func NewProfileUseCase(
	profileRepo profile.Repository,
	userRepo user.Repository,
	store service.FileStore,
	cache profile.ViewCache,
	events service.EventPublisher,
	log logger.Logger,
) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		store:       store,
		cache:       cache,
		events:      events,
		logger:      log,
		now:         time.Now,
	}
}

type UpdateProfileInput struct {
	OwnerID   uuid.UUID
	Name      string
	AboutText string
	Details   user.Details
	Uploads   map[profile.Slot]*media.Upload
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteUpdateProfile",
		trace.WithAttributes(attribute.String("owner_id", input.OwnerID.String())),
	)
	defer span.End()

	if input.OwnerID == uuid.Nil {
		return nil, apperror.NewUnauthorized("owner identity is required to update a profile", nil)
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name is required", nil)
	}
	l := uc.logger.With(zap.String("owner_id", input.OwnerID.String()))

	stored, err := uc.storeUploads(ctx, input.OwnerID, input.Uploads)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	existing, err := uc.profileRepo.FindByOwnerID(ctx, input.OwnerID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		span.RecordError(err)
		return nil, err
	}
	owner, err := uc.userRepo.FindByID(ctx, input.OwnerID)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		span.RecordError(err)
		return nil, err
	}

	changes := profile.Changes{
		Name:      name,
		AboutText: strings.TrimSpace(input.AboutText),
		Paths:     stored,
	}

	var saved profile.Profile
	if existing != nil {
		merged, superseded := profile.Merge(*existing, changes, uc.now().UTC())
		for _, p := range superseded {
			if err := uc.reclaim(ctx, input.OwnerID, p); err != nil {
				span.RecordError(err)
				return nil, err
			}
		}
		if err := uc.profileRepo.Update(ctx, &merged); err != nil {
			span.RecordError(err)
			return nil, err
		}
		saved = merged
	} else {
		created := profile.New(input.OwnerID, changes, uc.now().UTC())
		if err := uc.profileRepo.Create(ctx, &created); err != nil {
			span.RecordError(err)
			return nil, err
		}
		saved = created
	}

	if owner != nil {
		details := owner.Details.Merge(input.Details)
		if err := uc.userRepo.UpdateDetails(ctx, owner.ID, details); err != nil {
			span.RecordError(err)
			return nil, err
		}
	} else {
		l.Warn("No user record for profile owner, skipped user details")
	}

	uc.invalidateView(ctx, input.OwnerID)
	uc.publish(event.ProfileEventPayload{EventType: event.ProfileEventProfileUpdated, OwnerID: input.OwnerID})

	l.Info("Profile saved", zap.Bool("created", existing == nil), zap.Int("files_stored", len(stored)))
	return &UpdateProfileOutput{Profile: &saved}, nil
}

// storeUploads classifies and writes every uploaded slot, in slot order.
func (uc *ProfileUseCase) storeUploads(ctx context.Context, ownerID uuid.UUID, uploads map[profile.Slot]*media.Upload) (map[profile.Slot]string, error) {
	stored := make(map[profile.Slot]string, len(uploads))
	used := make(map[string]bool, len(uploads))
	for _, slot := range profile.Slots {
		up := uploads[slot]
		if up == nil || up.Body == nil {
			continue
		}

		bucket := media.Classify(up.ContentType)
		name := uniqueName(up.Filename, uc.now(), func(n string) bool {
			return used[media.PublicPath(bucket, n)]
		})
		used[media.PublicPath(bucket, name)] = true
		p, err := uc.store.Save(ctx, bucket, name, up.Body)
		if err != nil {
			return nil, err
		}
		stored[slot] = p

		uc.publish(event.ProfileEventPayload{
			EventType: event.ProfileEventFileStored,
			OwnerID:   ownerID,
			Path:      p,
			Bucket:    string(bucket),
		})
	}
	return stored, nil
}

// uniqueName stamps original with now, moving the stamp forward a
// millisecond at a time while taken reports the name as in use.
func uniqueName(original string, now time.Time, taken func(string) bool) string {
	name := media.FileName(original, now)
	for taken(name) {
		now = now.Add(time.Millisecond)
		name = media.FileName(original, now)
	}
	return name
}

// reclaim deletes a superseded file. Paths that do not point into a media
// bucket were never written by this service and are left alone.
func (uc *ProfileUseCase) reclaim(ctx context.Context, ownerID uuid.UUID, p string) error {
	err := uc.store.Remove(ctx, p)
	if errors.Is(err, media.ErrInvalidPath) {
		uc.logger.Warn("Skip reclaiming foreign media path", zap.String("path", p))
		return nil
	}
	if err != nil {
		return err
	}

	uc.publish(event.ProfileEventPayload{
		EventType: event.ProfileEventFileReclaimed,
		OwnerID:   ownerID,
		Path:      p,
	})
	return nil
}

type GetProfileInput struct {
	// OwnerID may be uuid.Nil, in which case the earliest user is shown.
	OwnerID uuid.UUID
}

type GetProfileOutput struct {
	View profile.View
}

// ExecuteGetProfile is not scoped to the caller: anonymous requests fall back
// to the first user, matching the single-owner portfolio setup.
func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "ExecuteGetProfile")
	defer span.End()

	ownerID := input.OwnerID
	var owner *user.User
	if ownerID == uuid.Nil {
		u, err := uc.userRepo.FindFirst(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		owner = u
		ownerID = u.ID
	}
	span.SetAttributes(attribute.String("owner_id", ownerID.String()))

	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, ownerID)
		if err != nil {
			uc.logger.Warn("Profile cache read failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
		} else if cached != nil {
			return &GetProfileOutput{View: *cached}, nil
		}
	}

	p, err := uc.profileRepo.FindByOwnerID(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if owner == nil {
		owner, err = uc.userRepo.FindByID(ctx, ownerID)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	view := profile.BuildView(*p, *owner)
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, ownerID, view); err != nil {
			uc.logger.Warn("Profile cache write failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
		}
	}
	return &GetProfileOutput{View: view}, nil
}

func (uc *ProfileUseCase) invalidateView(ctx context.Context, ownerID uuid.UUID) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, ownerID); err != nil {
		uc.logger.Warn("Profile cache invalidation failed", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}

func (uc *ProfileUseCase) publish(payload event.ProfileEventPayload) {
	if uc.events == nil {
		return
	}
	payload.OccurredAt = uc.now().UTC()
	go func() {
		if err := uc.events.PublishProfileEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish profile event", err,
				zap.String("event_type", string(payload.EventType)),
				zap.String("owner_id", payload.OwnerID.String()),
			)
		}
	}()
}
