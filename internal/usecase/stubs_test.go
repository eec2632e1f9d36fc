package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/repository"
)

// stubUserRepo is an in-memory port.UserRepository with compare-and-swap
// update semantics matching the Postgres implementation.
type stubUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Login == user.Login {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *stubUserRepo) GetByLogin(_ context.Context, login string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Login == login {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) List(_ context.Context, filter port.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user domain.User, expectedVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type stubMovieRepo struct {
	mu     sync.Mutex
	movies map[string]domain.Movie
}

func newStubMovieRepo() *stubMovieRepo {
	return &stubMovieRepo{movies: make(map[string]domain.Movie)}
}

func (r *stubMovieRepo) Create(_ context.Context, movie domain.Movie) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movies[movie.ID] = movie
	return nil
}

func (r *stubMovieRepo) GetByID(_ context.Context, id string) (*domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	movie, ok := r.movies[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &movie, nil
}

func (r *stubMovieRepo) List(_ context.Context) ([]domain.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Movie, 0, len(r.movies))
	for _, movie := range r.movies {
		out = append(out, movie)
	}
	return out, nil
}

func (r *stubMovieRepo) Update(_ context.Context, movie domain.Movie, expectedVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.movies[movie.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	r.movies[movie.ID] = movie
	return nil
}

func (r *stubMovieRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.movies, id)
	return nil
}

type stubTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (r *stubTicketRepo) Create(_ context.Context, ticket domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *stubTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ticket, nil
}

func (r *stubTicketRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0)
	for _, ticket := range r.tickets {
		if ticket.OwnerID == ownerID {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (r *stubTicketRepo) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		out = append(out, ticket)
	}
	return out, nil
}

func (r *stubTicketRepo) CountByMovie(_ context.Context, movieID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, ticket := range r.tickets {
		if ticket.MovieID == movieID {
			count++
		}
	}
	return count, nil
}

func (r *stubTicketRepo) ExistsByMovie(_ context.Context, movieID string) (bool, error) {
	count, err := r.CountByMovie(context.Background(), movieID)
	return count > 0, err
}

func (r *stubTicketRepo) Update(_ context.Context, ticket domain.Ticket, expectedVersion string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.tickets[ticket.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if current.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *stubTicketRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tickets, id)
	return nil
}

// stubCache is an in-memory port.AvailabilityCache without TTL expiry.
type stubCache struct {
	mu    sync.Mutex
	seats map[string]int
}

func newStubCache() *stubCache {
	return &stubCache{seats: make(map[string]int)}
}

func (c *stubCache) GetSeatsLeft(_ context.Context, movieID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	seats, ok := c.seats[movieID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return seats, nil
}

func (c *stubCache) SetSeatsLeft(_ context.Context, movieID string, seats int, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seats[movieID] = seats
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, movieID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seats, movieID)
	return nil
}

// capturePublisher records published events for assertions.
type capturePublisher struct {
	mu         sync.Mutex
	registered []domain.UserRegisteredEvent
	lifecycle  []domain.UserLifecycleEvent
	movies     []domain.MovieCreatedEvent
	deleted    []domain.MovieDeletedEvent
	issued     []domain.TicketIssuedEvent
	cancelled  []domain.TicketCancelledEvent
}

func (p *capturePublisher) PublishUserRegistered(_ context.Context, e domain.UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, e)
	return nil
}

func (p *capturePublisher) PublishUserLifecycleChanged(_ context.Context, e domain.UserLifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lifecycle = append(p.lifecycle, e)
	return nil
}

func (p *capturePublisher) PublishMovieCreated(_ context.Context, e domain.MovieCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movies = append(p.movies, e)
	return nil
}

func (p *capturePublisher) PublishMovieDeleted(_ context.Context, e domain.MovieDeletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, e)
	return nil
}

func (p *capturePublisher) PublishTicketIssued(_ context.Context, e domain.TicketIssuedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.issued = append(p.issued, e)
	return nil
}

func (p *capturePublisher) PublishTicketCancelled(_ context.Context, e domain.TicketCancelledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, e)
	return nil
}

var (
	_ port.UserRepository    = (*stubUserRepo)(nil)
	_ port.MovieRepository   = (*stubMovieRepo)(nil)
	_ port.TicketRepository  = (*stubTicketRepo)(nil)
	_ port.AvailabilityCache = (*stubCache)(nil)
	_ port.EventPublisher    = (*capturePublisher)(nil)
)
