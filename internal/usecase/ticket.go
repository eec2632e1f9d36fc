package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/policy"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/repository"
)

// TicketService allocates and releases seats. Allocation snapshots the movie
// price at purchase time; later price changes never touch issued tickets.
type TicketService struct {
	tickets port.TicketRepository
	movies  port.MovieRepository
	cache   port.AvailabilityCache
	events  port.EventPublisher
	locks   *SeatLocks
	log     *zap.Logger
}

// NewTicketService constructs a ticket service. The lock table must be the
// same instance the movie service uses.
func NewTicketService(tickets port.TicketRepository, movies port.MovieRepository, cache port.AvailabilityCache, events port.EventPublisher, locks *SeatLocks, log *zap.Logger) *TicketService {
	if locks == nil {
		locks = NewSeatLocks()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TicketService{
		tickets: tickets,
		movies:  movies,
		cache:   cache,
		events:  events,
		locks:   locks,
		log:     log,
	}
}

// Buy allocates a seat for the caller on the given movie. The capacity read,
// the admission check and the insert all run under the movie's allocation
// lock, so the number of issued tickets never exceeds the room capacity even
// when the capacity shrinks concurrently.
func (s *TicketService) Buy(ctx context.Context, p domain.Principal, movieID string, screeningTime time.Time) (*domain.Ticket, error) {
	if policy.Decide(p, policy.Create, policy.Ticket, p.UserID) == policy.Deny {
		return nil, ErrForbidden
	}

	if screeningTime.IsZero() {
		return nil, fmt.Errorf("%w: screening time is required", ErrValidation)
	}

	lock := s.locks.forMovie(movieID)
	lock.Lock()
	defer lock.Unlock()

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, mapRepoError(err)
	}

	allocated, err := s.tickets.CountByMovie(ctx, movieID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if allocated >= movie.TotalSeats {
		return nil, ErrCapacityExceeded
	}

	now := time.Now().UTC()
	ticket := domain.Ticket{
		ID:              uuid.NewString(),
		OwnerID:         p.UserID,
		MovieID:         movieID,
		ScreeningTime:   screeningTime.UTC(),
		FinalPriceCents: movie.BasePriceCents,
		Version:         nextVersion(),
		CreatedAt:       now,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, mapRepoError(err)
	}

	s.invalidateAvailability(ctx, movieID)

	s.log.Info("ticket issued",
		zap.String("ticket_id", ticket.ID),
		zap.String("movie_id", movieID),
		zap.String("owner_id", p.UserID),
	)

	if err := s.events.PublishTicketIssued(ctx, domain.TicketIssuedEvent{
		EventID:         uuid.NewString(),
		TicketID:        ticket.ID,
		OwnerID:         ticket.OwnerID,
		MovieID:         ticket.MovieID,
		ScreeningTime:   ticket.ScreeningTime,
		FinalPriceCents: ticket.FinalPriceCents,
		IssuedAt:        now,
	}); err != nil {
		s.log.Warn("publish ticket issued event failed", zap.Error(err))
	}

	return &ticket, nil
}

// Get returns a single ticket. Clients only see their own; staff see all.
func (s *TicketService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		mapped := mapRepoError(err)
		if errors.Is(mapped, ErrNotFound) {
			return nil, decideOnMissing(p, policy.ReadOne, policy.Ticket)
		}
		return nil, mapped
	}

	if policy.Decide(p, policy.ReadOne, policy.Ticket, ticket.OwnerID) == policy.Deny {
		return nil, ErrForbidden
	}
	return ticket, nil
}

// ListMine returns the caller's own tickets.
func (s *TicketService) ListMine(ctx context.Context, p domain.Principal) ([]domain.Ticket, error) {
	if policy.Decide(p, policy.ReadSelf, policy.Ticket, p.UserID) == policy.Deny {
		return nil, ErrForbidden
	}

	tickets, err := s.tickets.ListByOwner(ctx, p.UserID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tickets, nil
}

// ListAll returns the whole ticket ledger.
func (s *TicketService) ListAll(ctx context.Context, p domain.Principal) ([]domain.Ticket, error) {
	if policy.Decide(p, policy.ReadMany, policy.Ticket, "") == policy.Deny {
		return nil, ErrForbidden
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return tickets, nil
}

// TicketReschedule carries the writable ticket fields of a reschedule. The
// id, when echoed in the payload, must match the stored ticket.
type TicketReschedule struct {
	ID            string
	ScreeningTime time.Time
}

// Reschedule moves a ticket to a new screening time under the caller's
// version precondition. The price and movie binding never change.
func (s *TicketService) Reschedule(ctx context.Context, p domain.Principal, id string, input TicketReschedule, expectedVersion *string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		mapped := mapRepoError(err)
		if errors.Is(mapped, ErrNotFound) {
			return nil, decideOnMissing(p, policy.UpdateSelf, policy.Ticket)
		}
		return nil, mapped
	}

	if policy.Decide(p, policy.UpdateSelf, policy.Ticket, ticket.OwnerID) == policy.Deny {
		return nil, ErrForbidden
	}

	if err := checkIdentity("id", input.ID, ticket.ID); err != nil {
		return nil, err
	}

	if err := checkVersion(expectedVersion, ticket.Version); err != nil {
		return nil, err
	}

	if input.ScreeningTime.IsZero() {
		return nil, fmt.Errorf("%w: screening time is required", ErrValidation)
	}

	updated := *ticket
	updated.ScreeningTime = input.ScreeningTime.UTC()
	updated.Version = nextVersion()

	if err := s.tickets.Update(ctx, updated, ticket.Version); err != nil {
		return nil, mapRepoError(err)
	}

	s.log.Info("ticket rescheduled",
		zap.String("ticket_id", id),
		zap.String("actor_id", p.UserID),
	)
	return &updated, nil
}

// Cancel deletes a ticket and frees its seat.
func (s *TicketService) Cancel(ctx context.Context, p domain.Principal, id string) error {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		mapped := mapRepoError(err)
		if errors.Is(mapped, ErrNotFound) {
			return decideOnMissing(p, policy.Delete, policy.Ticket)
		}
		return mapped
	}

	if policy.Decide(p, policy.Delete, policy.Ticket, ticket.OwnerID) == policy.Deny {
		return ErrForbidden
	}

	if err := s.tickets.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.invalidateAvailability(ctx, ticket.MovieID)

	now := time.Now().UTC()
	s.log.Info("ticket cancelled",
		zap.String("ticket_id", id),
		zap.String("actor_id", p.UserID),
	)

	if err := s.events.PublishTicketCancelled(ctx, domain.TicketCancelledEvent{
		EventID:     uuid.NewString(),
		TicketID:    id,
		OwnerID:     ticket.OwnerID,
		MovieID:     ticket.MovieID,
		CancelledBy: p.UserID,
		CancelledAt: now,
	}); err != nil {
		s.log.Warn("publish ticket cancelled event failed", zap.Error(err))
	}

	return nil
}

func (s *TicketService) invalidateAvailability(ctx context.Context, movieID string) {
	if err := s.cache.Invalidate(ctx, movieID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("invalidate availability cache failed",
			zap.String("movie_id", movieID),
			zap.Error(err),
		)
	}
}
