package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/repository"
)

// MovieRepository implements port.MovieRepository using PostgreSQL.
type MovieRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMovieRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewMovieRepository(exec pgExecutor) *MovieRepository {
	return &MovieRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new movie row.
func (r *MovieRepository) Create(ctx context.Context, movie domain.Movie) error {
	stmt, args, err := r.builder.Insert("booking.movies").
		Columns("id", "title", "base_price_cents", "screening_room", "total_seats", "version", "created_at").
		Values(movie.ID, movie.Title, movie.BasePriceCents, movie.ScreeningRoom, movie.TotalSeats, movie.Version, movie.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movie sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert movie: %w", err)
	}

	return nil
}

// GetByID retrieves a movie by identifier.
func (r *MovieRepository) GetByID(ctx context.Context, id string) (*domain.Movie, error) {
	stmt, args, err := r.builder.
		Select("id", "title", "base_price_cents", "screening_room", "total_seats", "version", "created_at").
		From("booking.movies").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select movie sql: %w", err)
	}

	var movie domain.Movie
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&movie.ID, &movie.Title, &movie.BasePriceCents, &movie.ScreeningRoom, &movie.TotalSeats, &movie.Version, &movie.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan movie: %w", err)
	}

	return &movie, nil
}

// List returns all movies ordered by creation time.
func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	stmt, args, err := r.builder.
		Select("id", "title", "base_price_cents", "screening_room", "total_seats", "version", "created_at").
		From("booking.movies").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movies sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		var movie domain.Movie
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.BasePriceCents, &movie.ScreeningRoom, &movie.TotalSeats, &movie.Version, &movie.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}

	return movies, nil
}

// Update applies the supplied state under a version precondition.
func (r *MovieRepository) Update(ctx context.Context, movie domain.Movie, expectedVersion string) error {
	stmt, args, err := r.builder.Update("booking.movies").
		Set("title", movie.Title).
		Set("base_price_cents", movie.BasePriceCents).
		Set("screening_room", movie.ScreeningRoom).
		Set("total_seats", movie.TotalSeats).
		Set("version", movie.Version).
		Where(squirrel.Eq{"id": movie.ID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update movie sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update movie: %w", err)
	}

	if ct.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, movie.ID); err != nil {
			return err
		}
		return repository.ErrVersionConflict
	}

	return nil
}

// Delete removes a movie row, failing with ErrNotFound when it does not exist.
func (r *MovieRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Delete("booking.movies").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete movie sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.MovieRepository = (*MovieRepository)(nil)
