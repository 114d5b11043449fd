package ports

import (
	"context"

	"github.com/steambuds/portal/internal/core/domain"
)

type EventRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}

// EventSink accepts audit events for asynchronous persistence. Record must not
// block the caller beyond queue backpressure.
type EventSink interface {
	Record(event domain.AuthEvent)
}
