package service

import (
	"context"

	"github.com/khoahotran/portfolio-admin/adapters/event"
)

type EventPublisher interface {
	PublishProfileEvent(ctx context.Context, payload event.ProfileEventPayload) error
}
