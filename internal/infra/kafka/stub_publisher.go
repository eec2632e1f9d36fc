package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/port"
)

// StubPublisher logs events instead of publishing them. Used when no
// Kafka brokers are configured, primarily in local development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a logging-only event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (s *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	s.logger.Info("event skipped, kafka disabled",
		zap.String("event_type", "user.registered"),
		zap.String("user_id", event.UserID),
	)
	return nil
}

func (s *StubPublisher) PublishUserLifecycleChanged(_ context.Context, event domain.UserLifecycleEvent) error {
	s.logger.Info("event skipped, kafka disabled",
		zap.String("event_type", "user.lifecycle"),
		zap.String("user_id", event.UserID),
		zap.Bool("active", event.Active),
	)
	return nil
}

func (s *StubPublisher) PublishMovieCreated(_ context.Context, event domain.MovieCreatedEvent) error {
	s.logger.Info("event skipped, kafka disabled",
		zap.String("event_type", "movie.created"),
		zap.String("movie_id", event.MovieID),
	)
	return nil
}

func (s *StubPublisher) PublishMovieDeleted(_ context.Context, event domain.MovieDeletedEvent) error {
	s.logger.Info("event skipped, kafka disabled",
		zap.String("event_type", "movie.deleted"),
		zap.String("movie_id", event.MovieID),
	)
	return nil
}

func (s *StubPublisher) PublishTicketIssued(_ context.Context, event domain.TicketIssuedEvent) error {
	s.logger.Info("event skipped, kafka disabled",
		zap.String("event_type", "ticket.issued"),
		zap.String("ticket_id", event.TicketID),
		zap.String("movie_id", event.MovieID),
	)
	return nil
}

func (s *StubPublisher) PublishTicketCancelled(_ context.Context, event domain.TicketCancelledEvent) error {
	s.logger.Info("event skipped, kafka disabled",
		zap.String("event_type", "ticket.cancelled"),
		zap.String("ticket_id", event.TicketID),
	)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
