package event

import (
	"time"

	"github.com/google/uuid"
)

type ProfileEventType string

const (
	ProfileEventFileStored      ProfileEventType = "file.stored"
	ProfileEventFileReclaimed   ProfileEventType = "file.reclaimed"
	ProfileEventProfileUpdated  ProfileEventType = "profile.updated"
	ProfileEventRecordsReplaced ProfileEventType = "records.replaced"
)

type ProfileEventPayload struct {
	EventType  ProfileEventType `json:"event_type"`
	OwnerID    uuid.UUID        `json:"owner_id"`
	Path       string           `json:"path,omitempty"`
	Bucket     string           `json:"bucket,omitempty"`
	Kind       string           `json:"kind,omitempty"`
	Count      int              `json:"count,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}
