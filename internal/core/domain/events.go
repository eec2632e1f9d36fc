package domain

import "time"

// UserRegisteredEvent represents the payload for booking.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Login        string
	Role         Role
	RegisteredAt time.Time
}

// UserLifecycleEvent represents booking.user.activated / booking.user.deactivated messages.
type UserLifecycleEvent struct {
	EventID   string
	UserID    string
	Active    bool
	ChangedBy string
	ChangedAt time.Time
}

// MovieCreatedEvent represents the payload for booking.movie.created messages.
type MovieCreatedEvent struct {
	EventID        string
	MovieID        string
	Title          string
	ScreeningRoom  int
	TotalSeats     int
	BasePriceCents int64
	CreatedBy      string
	CreatedAt      time.Time
}

// MovieDeletedEvent represents the payload for booking.movie.deleted messages.
type MovieDeletedEvent struct {
	EventID   string
	MovieID   string
	DeletedBy string
	DeletedAt time.Time
}

// TicketIssuedEvent represents the payload for booking.ticket.issued messages.
type TicketIssuedEvent struct {
	EventID         string
	TicketID        string
	OwnerID         string
	MovieID         string
	ScreeningTime   time.Time
	FinalPriceCents int64
	IssuedAt        time.Time
}

// TicketCancelledEvent represents the payload for booking.ticket.cancelled messages.
type TicketCancelledEvent struct {
	EventID     string
	TicketID    string
	OwnerID     string
	MovieID     string
	CancelledBy string
	CancelledAt time.Time
}
