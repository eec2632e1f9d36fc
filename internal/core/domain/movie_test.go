package domain

import (
	"errors"
	"strings"
	"testing"
)

func validMovie() Movie {
	return Movie{
		ID:             "movie-1",
		Title:          "Inception",
		BasePriceCents: 1500,
		ScreeningRoom:  5,
		TotalSeats:     100,
	}
}

func TestMovieValidate(t *testing.T) {
	if err := validMovie().Validate(); err != nil {
		t.Fatalf("expected valid movie, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Movie)
	}{
		{"empty title", func(m *Movie) { m.Title = "" }},
		{"title too long", func(m *Movie) { m.Title = strings.Repeat("x", MovieTitleMaxLength+1) }},
		{"negative price", func(m *Movie) { m.BasePriceCents = -1 }},
		{"price above cap", func(m *Movie) { m.BasePriceCents = MovieBasePriceMaxCents + 1 }},
		{"room zero", func(m *Movie) { m.ScreeningRoom = 0 }},
		{"room above max", func(m *Movie) { m.ScreeningRoom = MovieScreeningRoomMax + 1 }},
		{"negative seats", func(m *Movie) { m.TotalSeats = -1 }},
		{"seats above max", func(m *Movie) { m.TotalSeats = MovieTotalSeatsMax + 1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := validMovie()
			tc.mutate(&m)
			err := m.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !errors.Is(err, ErrInvalidMovie) {
				t.Fatalf("expected ErrInvalidMovie, got %v", err)
			}
		})
	}
}

func TestMovieValidateEdges(t *testing.T) {
	m := validMovie()
	m.BasePriceCents = MovieBasePriceMaxCents
	m.ScreeningRoom = MovieScreeningRoomMax
	m.TotalSeats = MovieTotalSeatsMax
	if err := m.Validate(); err != nil {
		t.Fatalf("upper bounds should be accepted, got %v", err)
	}

	m = validMovie()
	m.BasePriceCents = 0
	m.ScreeningRoom = MovieScreeningRoomMin
	m.TotalSeats = 0
	if err := m.Validate(); err != nil {
		t.Fatalf("lower bounds should be accepted, got %v", err)
	}
}
