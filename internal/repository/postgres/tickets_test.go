package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/cinema-booking/internal/core/domain"
	"github.com/arklim/cinema-booking/internal/repository"
)

func newTicketMock(t *testing.T) (pgxmock.PgxPoolIface, *TicketRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, NewTicketRepository(mock)
}

func sampleTicket() domain.Ticket {
	return domain.Ticket{
		ID:              "ticket-1",
		OwnerID:         "user-1",
		MovieID:         "movie-1",
		ScreeningTime:   time.Date(2026, time.September, 12, 20, 0, 0, 0, time.UTC),
		FinalPriceCents: 1500,
		Version:         "v-1",
		CreatedAt:       time.Now().UTC(),
	}
}

func TestTicketRepositoryCreate(t *testing.T) {
	mock, repo := newTicketMock(t)
	ticket := sampleTicket()

	mock.ExpectExec(`INSERT INTO booking\.tickets`).
		WithArgs(ticket.ID, ticket.OwnerID, ticket.MovieID, ticket.ScreeningTime, ticket.FinalPriceCents, ticket.Version, ticket.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), ticket); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketRepositoryGetByID(t *testing.T) {
	mock, repo := newTicketMock(t)
	ticket := sampleTicket()

	rows := pgxmock.NewRows([]string{"id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at"}).
		AddRow(ticket.ID, ticket.OwnerID, ticket.MovieID, ticket.ScreeningTime, ticket.FinalPriceCents, ticket.Version, ticket.CreatedAt)

	mock.ExpectQuery(`SELECT id, owner_id, movie_id, screening_time, final_price_cents, version, created_at FROM booking\.tickets`).
		WithArgs(ticket.ID).
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), ticket.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.OwnerID != ticket.OwnerID || got.FinalPriceCents != ticket.FinalPriceCents {
		t.Fatalf("unexpected ticket: %+v", got)
	}
}

func TestTicketRepositoryGetByIDNotFound(t *testing.T) {
	mock, repo := newTicketMock(t)

	mock.ExpectQuery(`SELECT id, owner_id, movie_id, screening_time, final_price_cents, version, created_at FROM booking\.tickets`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTicketRepositoryListByOwner(t *testing.T) {
	mock, repo := newTicketMock(t)
	ticket := sampleTicket()

	rows := pgxmock.NewRows([]string{"id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at"}).
		AddRow(ticket.ID, ticket.OwnerID, ticket.MovieID, ticket.ScreeningTime, ticket.FinalPriceCents, ticket.Version, ticket.CreatedAt)

	mock.ExpectQuery(`SELECT id, owner_id, movie_id, screening_time, final_price_cents, version, created_at FROM booking\.tickets`).
		WithArgs(ticket.OwnerID).
		WillReturnRows(rows)

	tickets, err := repo.ListByOwner(context.Background(), ticket.OwnerID)
	if err != nil {
		t.Fatalf("ListByOwner returned error: %v", err)
	}
	if len(tickets) != 1 || tickets[0].ID != ticket.ID {
		t.Fatalf("unexpected tickets: %+v", tickets)
	}
}

func TestTicketRepositoryList(t *testing.T) {
	mock, repo := newTicketMock(t)
	ticket := sampleTicket()

	rows := pgxmock.NewRows([]string{"id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at"}).
		AddRow(ticket.ID, ticket.OwnerID, ticket.MovieID, ticket.ScreeningTime, ticket.FinalPriceCents, ticket.Version, ticket.CreatedAt).
		AddRow("ticket-2", "user-2", ticket.MovieID, ticket.ScreeningTime, int64(1200), "v-1", ticket.CreatedAt)

	mock.ExpectQuery(`SELECT id, owner_id, movie_id, screening_time, final_price_cents, version, created_at FROM booking\.tickets`).
		WillReturnRows(rows)

	tickets, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(tickets))
	}
}

func TestTicketRepositoryCountByMovie(t *testing.T) {
	mock, repo := newTicketMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM booking\.tickets`).
		WithArgs("movie-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := repo.CountByMovie(context.Background(), "movie-1")
	if err != nil {
		t.Fatalf("CountByMovie returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestTicketRepositoryExistsByMovie(t *testing.T) {
	mock, repo := newTicketMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM booking\.tickets`).
		WithArgs("movie-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))

	exists, err := repo.ExistsByMovie(context.Background(), "movie-1")
	if err != nil {
		t.Fatalf("ExistsByMovie returned error: %v", err)
	}
	if exists {
		t.Fatal("expected no live tickets")
	}
}

func TestTicketRepositoryUpdate(t *testing.T) {
	mock, repo := newTicketMock(t)
	ticket := sampleTicket()
	ticket.Version = "v-2"

	mock.ExpectExec(`UPDATE booking\.tickets SET`).
		WithArgs(ticket.ScreeningTime, ticket.Version, ticket.ID, "v-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Update(context.Background(), ticket, "v-1"); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
}

func TestTicketRepositoryUpdateVersionConflict(t *testing.T) {
	mock, repo := newTicketMock(t)
	ticket := sampleTicket()
	ticket.Version = "v-2"

	mock.ExpectExec(`UPDATE booking\.tickets SET`).
		WithArgs(ticket.ScreeningTime, ticket.Version, ticket.ID, "stale").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	rows := pgxmock.NewRows([]string{"id", "owner_id", "movie_id", "screening_time", "final_price_cents", "version", "created_at"}).
		AddRow(ticket.ID, ticket.OwnerID, ticket.MovieID, ticket.ScreeningTime, ticket.FinalPriceCents, "v-1", ticket.CreatedAt)
	mock.ExpectQuery(`SELECT id, owner_id, movie_id, screening_time, final_price_cents, version, created_at FROM booking\.tickets`).
		WithArgs(ticket.ID).
		WillReturnRows(rows)

	if err := repo.Update(context.Background(), ticket, "stale"); !errors.Is(err, repository.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestTicketRepositoryDelete(t *testing.T) {
	mock, repo := newTicketMock(t)

	mock.ExpectExec(`DELETE FROM booking\.tickets`).
		WithArgs("ticket-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "ticket-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	mock.ExpectExec(`DELETE FROM booking\.tickets`).
		WithArgs("ticket-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "ticket-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
