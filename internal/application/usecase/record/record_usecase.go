package record

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-admin/adapters/event"
	"github.com/khoahotran/portfolio-admin/internal/application/service"
	"github.com/khoahotran/portfolio-admin/internal/domain/education"
	"github.com/khoahotran/portfolio-admin/internal/domain/experience"
	"github.com/khoahotran/portfolio-admin/pkg/apperror"
	"github.com/khoahotran/portfolio-admin/pkg/logger"
)

var tracer = otel.Tracer("record_usecase")

const (
	KindEducation  = "education"
	KindExperience = "experience"
)

// ownedEntry is a repeatable record that belongs to one owner.
type ownedEntry interface {
	AssignOwner(ownerID uuid.UUID)
	Validate() error
}

type entryStore[T any] interface {
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	InsertMany(ctx context.Context, entries []T) error
	ListAll(ctx context.Context) ([]T, error)
}

// RecordUseCase replaces the education and experience lists of an owner.
// Delete and insert are separate statements: a failure between them leaves
// the owner with no entries of that kind.
type RecordUseCase struct {
	educationRepo  education.Repository
	experienceRepo experience.Repository
	events         service.EventPublisher
	logger         logger.Logger
}

func NewRecordUseCase(
	educationRepo education.Repository,
	experienceRepo experience.Repository,
	events service.EventPublisher,
	log logger.Logger,
) *RecordUseCase {
	return &RecordUseCase{
		educationRepo:  educationRepo,
		experienceRepo: experienceRepo,
		events:         events,
		logger:         log,
	}
}

func (uc *RecordUseCase) ReplaceEducation(ctx context.Context, ownerID uuid.UUID, raw []byte) ([]*education.Entry, error) {
	ctx, span := tracer.Start(ctx, "ReplaceEducation")
	defer span.End()

	entries, err := replaceAll[*education.Entry](ctx, uc.educationRepo, ownerID, raw)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries", len(entries)))
	uc.published(ownerID, KindEducation, len(entries))
	return entries, nil
}

// ListEducation returns every owner's entries.
func (uc *RecordUseCase) ListEducation(ctx context.Context) ([]*education.Entry, error) {
	return uc.educationRepo.ListAll(ctx)
}

func (uc *RecordUseCase) ReplaceExperience(ctx context.Context, ownerID uuid.UUID, raw []byte) ([]*experience.Entry, error) {
	ctx, span := tracer.Start(ctx, "ReplaceExperience")
	defer span.End()

	entries, err := replaceAll[*experience.Entry](ctx, uc.experienceRepo, ownerID, raw)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("entries", len(entries)))
	uc.published(ownerID, KindExperience, len(entries))
	return entries, nil
}

// ListExperience returns every owner's entries.
func (uc *RecordUseCase) ListExperience(ctx context.Context) ([]*experience.Entry, error) {
	return uc.experienceRepo.ListAll(ctx)
}

// replaceAll validates every entry before touching storage, so a rejected
// submission leaves the existing entries in place.
func replaceAll[T ownedEntry](ctx context.Context, store entryStore[T], ownerID uuid.UUID, raw []byte) ([]T, error) {
	if ownerID == uuid.Nil {
		return nil, apperror.NewUnauthorized("owner identity is required to replace entries", nil)
	}

	entries, err := normalize[T](raw)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.AssignOwner(ownerID)
		if err := e.Validate(); err != nil {
			return nil, apperror.NewValidation(err.Error(), nil)
		}
	}

	if _, err := store.DeleteByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := store.InsertMany(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// normalize accepts either a JSON array of objects or a single object.
func normalize[T any](raw []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, apperror.NewValidation("request body must be an object or an array of objects", nil)
	}

	var items []json.RawMessage
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, apperror.NewValidation("request body must be an object or an array of objects", err)
		}
	case '{':
		items = []json.RawMessage{trimmed}
	default:
		return nil, apperror.NewValidation("request body must be an object or an array of objects", nil)
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, apperror.NewValidation("every entry must be an object", nil)
		}
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return nil, apperror.NewValidation("malformed entry", err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (uc *RecordUseCase) published(ownerID uuid.UUID, kind string, count int) {
	uc.logger.Info("Entries replaced", zap.String("owner_id", ownerID.String()), zap.String("kind", kind), zap.Int("count", count))
	if uc.events == nil {
		return
	}
	payload := event.ProfileEventPayload{
		EventType:  event.ProfileEventRecordsReplaced,
		OwnerID:    ownerID,
		Kind:       kind,
		Count:      count,
		OccurredAt: time.Now().UTC(),
	}
	go func() {
		if err := uc.events.PublishProfileEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish records event", err, zap.String("kind", kind))
		}
	}()
}
