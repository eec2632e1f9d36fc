package domain

import "time"

// Ticket represents a seat allocated against a movie's capacity. FinalPriceCents
// is snapshotted from the movie's base price at allocation time and never
// accepted from client input afterwards.
type Ticket struct {
	ID              string
	OwnerID         string
	MovieID         string
	ScreeningTime   time.Time
	FinalPriceCents int64
	Version         string
	CreatedAt       time.Time
}
