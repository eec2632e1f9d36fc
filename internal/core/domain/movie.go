package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	MovieTitleMaxLength = 150
	// Prices are held in cents to avoid floating point in money arithmetic.
	MovieBasePriceMaxCents = 100_00
	MovieScreeningRoomMin  = 1
	MovieScreeningRoomMax  = 30
	MovieTotalSeatsMax     = 120
)

// ErrInvalidMovie indicates a movie field is out of its allowed range.
var ErrInvalidMovie = errors.New("invalid movie")

// Movie describes a screening offer with a finite seat pool.
type Movie struct {
	ID             string
	Title          string
	BasePriceCents int64
	ScreeningRoom  int
	TotalSeats     int
	Version        string
	CreatedAt      time.Time
}

// Validate checks the field ranges for a movie payload.
func (m Movie) Validate() error {
	if len(m.Title) == 0 || len(m.Title) > MovieTitleMaxLength {
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidMovie, MovieTitleMaxLength)
	}
	if m.BasePriceCents < 0 || m.BasePriceCents > MovieBasePriceMaxCents {
		return fmt.Errorf("%w: base price must be within [0, %d] cents", ErrInvalidMovie, MovieBasePriceMaxCents)
	}
	if m.ScreeningRoom < MovieScreeningRoomMin || m.ScreeningRoom > MovieScreeningRoomMax {
		return fmt.Errorf("%w: screening room must be within [%d, %d]", ErrInvalidMovie, MovieScreeningRoomMin, MovieScreeningRoomMax)
	}
	if m.TotalSeats < 0 || m.TotalSeats > MovieTotalSeatsMax {
		return fmt.Errorf("%w: total seats must be within [0, %d]", ErrInvalidMovie, MovieTotalSeatsMax)
	}
	return nil
}
