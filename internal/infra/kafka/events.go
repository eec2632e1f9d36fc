package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/infra/config"
)

const schemaVersion = "1.0"

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishUserRegistered publishes booking.user.registered events.
func (p *EventPublisher) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := struct {
		UserID       string    `json:"user_id"`
		Login        string    `json:"login"`
		Role         string    `json:"role"`
		RegisteredAt time.Time `json:"registered_at"`
	}{
		UserID:       event.UserID,
		Login:        event.Login,
		Role:         string(event.Role),
		RegisteredAt: event.RegisteredAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "user.registered", event.RegisteredAt, payload)
}

// PublishUserLifecycleChanged publishes booking.user.activated / booking.user.deactivated events.
func (p *EventPublisher) PublishUserLifecycleChanged(ctx context.Context, event domain.UserLifecycleEvent) error {
	payload := struct {
		UserID    string    `json:"user_id"`
		Active    bool      `json:"active"`
		ChangedBy string    `json:"changed_by"`
		ChangedAt time.Time `json:"changed_at"`
	}{
		UserID:    event.UserID,
		Active:    event.Active,
		ChangedBy: event.ChangedBy,
		ChangedAt: event.ChangedAt.UTC(),
	}

	eventType := "user.deactivated"
	if event.Active {
		eventType = "user.activated"
	}

	return p.publish(ctx, event.EventID, eventType, event.ChangedAt, payload)
}

// PublishMovieCreated publishes booking.movie.created events.
func (p *EventPublisher) PublishMovieCreated(ctx context.Context, event domain.MovieCreatedEvent) error {
	payload := struct {
		MovieID        string    `json:"movie_id"`
		Title          string    `json:"title"`
		ScreeningRoom  int       `json:"screening_room"`
		TotalSeats     int       `json:"total_seats"`
		BasePriceCents int64     `json:"base_price_cents"`
		CreatedBy      string    `json:"created_by"`
		CreatedAt      time.Time `json:"created_at"`
	}{
		MovieID:        event.MovieID,
		Title:          event.Title,
		ScreeningRoom:  event.ScreeningRoom,
		TotalSeats:     event.TotalSeats,
		BasePriceCents: event.BasePriceCents,
		CreatedBy:      event.CreatedBy,
		CreatedAt:      event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "movie.created", event.CreatedAt, payload)
}

// PublishMovieDeleted publishes booking.movie.deleted events.
func (p *EventPublisher) PublishMovieDeleted(ctx context.Context, event domain.MovieDeletedEvent) error {
	payload := struct {
		MovieID   string    `json:"movie_id"`
		DeletedBy string    `json:"deleted_by"`
		DeletedAt time.Time `json:"deleted_at"`
	}{
		MovieID:   event.MovieID,
		DeletedBy: event.DeletedBy,
		DeletedAt: event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "movie.deleted", event.DeletedAt, payload)
}

// PublishTicketIssued publishes booking.ticket.issued events.
func (p *EventPublisher) PublishTicketIssued(ctx context.Context, event domain.TicketIssuedEvent) error {
	payload := struct {
		TicketID        string    `json:"ticket_id"`
		OwnerID         string    `json:"owner_id"`
		MovieID         string    `json:"movie_id"`
		ScreeningTime   time.Time `json:"screening_time"`
		FinalPriceCents int64     `json:"final_price_cents"`
		IssuedAt        time.Time `json:"issued_at"`
	}{
		TicketID:        event.TicketID,
		OwnerID:         event.OwnerID,
		MovieID:         event.MovieID,
		ScreeningTime:   event.ScreeningTime.UTC(),
		FinalPriceCents: event.FinalPriceCents,
		IssuedAt:        event.IssuedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticket.issued", event.IssuedAt, payload)
}

// PublishTicketCancelled publishes booking.ticket.cancelled events.
func (p *EventPublisher) PublishTicketCancelled(ctx context.Context, event domain.TicketCancelledEvent) error {
	payload := struct {
		TicketID    string    `json:"ticket_id"`
		OwnerID     string    `json:"owner_id"`
		MovieID     string    `json:"movie_id"`
		CancelledBy string    `json:"cancelled_by"`
		CancelledAt time.Time `json:"cancelled_at"`
	}{
		TicketID:    event.TicketID,
		OwnerID:     event.OwnerID,
		MovieID:     event.MovieID,
		CancelledBy: event.CancelledBy,
		CancelledAt: event.CancelledAt.UTC(),
	}

	return p.publish(ctx, event.EventID, "ticket.cancelled", event.CancelledAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
