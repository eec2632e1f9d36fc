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

// MovieService manages the movie catalog. Deletion is guarded by a
// referential check against live tickets.
type MovieService struct {
	movies  port.MovieRepository
	tickets port.TicketRepository
	cache   port.AvailabilityCache
	events  port.EventPublisher
	locks   *SeatLocks
	ttl     time.Duration
	log     *zap.Logger
}

// NewMovieService constructs a movie service. The lock table must be the same
// instance the ticket service allocates under; cacheTTL bounds staleness of
// the availability read path.
func NewMovieService(movies port.MovieRepository, tickets port.TicketRepository, cache port.AvailabilityCache, events port.EventPublisher, locks *SeatLocks, cacheTTL time.Duration, log *zap.Logger) *MovieService {
	if locks == nil {
		locks = NewSeatLocks()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MovieService{movies: movies, tickets: tickets, cache: cache, events: events, locks: locks, ttl: cacheTTL, log: log}
}

// MovieInput carries the writable movie fields. ID is only meaningful on
// update, where a non-empty value must echo the stored id.
type MovieInput struct {
	ID             string
	Title          string
	ScreeningRoom  int
	TotalSeats     int
	BasePriceCents int64
}

// Create adds a movie to the catalog.
func (s *MovieService) Create(ctx context.Context, p domain.Principal, input MovieInput) (*domain.Movie, error) {
	if policy.Decide(p, policy.Create, policy.Movie, "") == policy.Deny {
		return nil, ErrForbidden
	}

	now := time.Now().UTC()
	movie := domain.Movie{
		ID:             uuid.NewString(),
		Title:          input.Title,
		ScreeningRoom:  input.ScreeningRoom,
		TotalSeats:     input.TotalSeats,
		BasePriceCents: input.BasePriceCents,
		Version:        nextVersion(),
		CreatedAt:      now,
	}
	if err := movie.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, mapRepoError(err)
	}

	s.log.Info("movie created",
		zap.String("movie_id", movie.ID),
		zap.String("actor_id", p.UserID),
	)

	if err := s.events.PublishMovieCreated(ctx, domain.MovieCreatedEvent{
		EventID:        uuid.NewString(),
		MovieID:        movie.ID,
		Title:          movie.Title,
		ScreeningRoom:  movie.ScreeningRoom,
		TotalSeats:     movie.TotalSeats,
		BasePriceCents: movie.BasePriceCents,
		CreatedBy:      p.UserID,
		CreatedAt:      now,
	}); err != nil {
		s.log.Warn("publish movie created event failed", zap.Error(err))
	}

	return &movie, nil
}

// Get returns a single movie.
func (s *MovieService) Get(ctx context.Context, p domain.Principal, id string) (*domain.Movie, error) {
	if policy.Decide(p, policy.ReadOne, policy.Movie, "") == policy.Deny {
		return nil, ErrForbidden
	}

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return movie, nil
}

// List returns the whole catalog.
func (s *MovieService) List(ctx context.Context, p domain.Principal) ([]domain.Movie, error) {
	if policy.Decide(p, policy.ReadMany, policy.Movie, "") == policy.Deny {
		return nil, ErrForbidden
	}

	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return movies, nil
}

// Update replaces the writable fields of a movie under the caller's version
// precondition. Capacity reductions below the allocated seat count are
// rejected so existing tickets never exceed the room.
func (s *MovieService) Update(ctx context.Context, p domain.Principal, id string, input MovieInput, expectedVersion *string) (*domain.Movie, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		mapped := mapRepoError(err)
		if errors.Is(mapped, ErrNotFound) {
			if policy.Decide(p, policy.UpdateOther, policy.Movie, "") == policy.Deny {
				return nil, ErrForbidden
			}
		}
		return nil, mapped
	}

	if policy.Decide(p, policy.UpdateOther, policy.Movie, "") == policy.Deny {
		return nil, ErrForbidden
	}

	if err := checkIdentity("id", input.ID, movie.ID); err != nil {
		return nil, err
	}

	if err := checkVersion(expectedVersion, movie.Version); err != nil {
		return nil, err
	}

	updated := *movie
	updated.Title = input.Title
	updated.ScreeningRoom = input.ScreeningRoom
	updated.TotalSeats = input.TotalSeats
	updated.BasePriceCents = input.BasePriceCents
	updated.Version = nextVersion()
	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if updated.TotalSeats < movie.TotalSeats {
		// hold the allocation lock across the count and the store write so
		// a concurrent Buy cannot slip a ticket past the shrink check
		lock := s.locks.forMovie(id)
		lock.Lock()
		defer lock.Unlock()

		allocated, err := s.tickets.CountByMovie(ctx, id)
		if err != nil {
			return nil, mapRepoError(err)
		}
		if updated.TotalSeats < allocated {
			return nil, fmt.Errorf("%w: %d seats already allocated", ErrValidation, allocated)
		}
	}

	if err := s.movies.Update(ctx, updated, movie.Version); err != nil {
		return nil, mapRepoError(err)
	}

	if err := s.cache.Invalidate(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("invalidate availability cache failed", zap.String("movie_id", id), zap.Error(err))
	}

	s.log.Info("movie updated",
		zap.String("movie_id", id),
		zap.String("actor_id", p.UserID),
	)
	return &updated, nil
}

// Delete removes a movie. Movies with live tickets cannot be removed; the
// conflict is a domain error, not an authorization failure.
func (s *MovieService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if policy.Decide(p, policy.Delete, policy.Movie, "") == policy.Deny {
		return ErrForbidden
	}

	// the referential check and the delete share the allocation lock so a
	// seat cannot be sold against a movie mid-removal
	lock := s.locks.forMovie(id)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.movies.GetByID(ctx, id); err != nil {
		return mapRepoError(err)
	}

	referenced, err := s.tickets.ExistsByMovie(ctx, id)
	if err != nil {
		return mapRepoError(err)
	}
	if referenced {
		return ErrReferentialConflict
	}

	if err := s.movies.Delete(ctx, id); err != nil {
		return mapRepoError(err)
	}

	s.locks.release(id)

	if err := s.cache.Invalidate(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("invalidate availability cache failed", zap.String("movie_id", id), zap.Error(err))
	}

	now := time.Now().UTC()
	s.log.Info("movie deleted",
		zap.String("movie_id", id),
		zap.String("actor_id", p.UserID),
	)

	if err := s.events.PublishMovieDeleted(ctx, domain.MovieDeletedEvent{
		EventID:   uuid.NewString(),
		MovieID:   id,
		DeletedBy: p.UserID,
		DeletedAt: now,
	}); err != nil {
		s.log.Warn("publish movie deleted event failed", zap.Error(err))
	}

	return nil
}

// Availability reports the seats still open for a movie. The counter is
// served from the cache when fresh and recomputed from the ticket ledger on
// a miss.
func (s *MovieService) Availability(ctx context.Context, p domain.Principal, id string) (int, error) {
	if policy.Decide(p, policy.ReadOne, policy.Movie, "") == policy.Deny {
		return 0, ErrForbidden
	}

	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return 0, mapRepoError(err)
	}

	if seats, err := s.cache.GetSeatsLeft(ctx, id); err == nil {
		return seats, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warn("availability cache read failed", zap.String("movie_id", id), zap.Error(err))
	}

	allocated, err := s.tickets.CountByMovie(ctx, id)
	if err != nil {
		return 0, mapRepoError(err)
	}

	seats := movie.TotalSeats - allocated
	if seats < 0 {
		seats = 0
	}

	if err := s.cache.SetSeatsLeft(ctx, id, seats, s.ttl); err != nil {
		s.log.Warn("availability cache write failed", zap.String("movie_id", id), zap.Error(err))
	}
	return seats, nil
}
