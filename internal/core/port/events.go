package port

import (
	"context"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishUserLifecycleChanged(ctx context.Context, event domain.UserLifecycleEvent) error
	PublishMovieCreated(ctx context.Context, event domain.MovieCreatedEvent) error
	PublishMovieDeleted(ctx context.Context, event domain.MovieDeletedEvent) error
	PublishTicketIssued(ctx context.Context, event domain.TicketIssuedEvent) error
	PublishTicketCancelled(ctx context.Context, event domain.TicketCancelledEvent) error
}
