package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse describes the response returned for a successful login.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// RegisterRequest defines the account creation payload.
type RegisterRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest holds the mutable user fields. The identity fields are
// bound so a payload trying to change them is rejected rather than dropped at
// the JSON boundary.
type UpdateProfileRequest struct {
	ID       string `json:"id"`
	Login    string `json:"login"`
	Password string `json:"password" binding:"required"`
}

// UserResponse describes a user returned by the API. The version tag is also
// surfaced via the ETag header on single-resource reads.
type UserResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	Version   string    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		Role:      string(u.Role),
		Active:    u.Active,
		Version:   u.Version,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// MovieRequest holds the writable movie fields. The bound id is rejected on
// update when it differs from the stored movie.
type MovieRequest struct {
	ID             string `json:"id"`
	Title          string `json:"title" binding:"required"`
	ScreeningRoom  int    `json:"screening_room" binding:"required"`
	TotalSeats     int    `json:"total_seats"`
	BasePriceCents int64  `json:"base_price_cents"`
}

// MovieResponse describes a movie returned by the API.
type MovieResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	ScreeningRoom  int       `json:"screening_room"`
	TotalSeats     int       `json:"total_seats"`
	BasePriceCents int64     `json:"base_price_cents"`
	Version        string    `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
}

func toMovieResponse(m domain.Movie) MovieResponse {
	return MovieResponse{
		ID:             m.ID,
		Title:          m.Title,
		ScreeningRoom:  m.ScreeningRoom,
		TotalSeats:     m.TotalSeats,
		BasePriceCents: m.BasePriceCents,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt,
	}
}

func toMovieResponses(movies []domain.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResponse(m))
	}
	return out
}

// AvailabilityResponse reports the open seat count for a movie.
type AvailabilityResponse struct {
	MovieID   string `json:"movie_id"`
	SeatsLeft int    `json:"seats_left"`
}

// BuyTicketRequest holds the seat allocation payload.
type BuyTicketRequest struct {
	MovieID       string    `json:"movie_id" binding:"required"`
	ScreeningTime time.Time `json:"screening_time" binding:"required"`
}

// RescheduleTicketRequest holds the mutable ticket fields. The bound id is
// rejected when it differs from the stored ticket.
type RescheduleTicketRequest struct {
	ID            string    `json:"id"`
	ScreeningTime time.Time `json:"screening_time" binding:"required"`
}

// TicketResponse describes a ticket returned by the API.
type TicketResponse struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	MovieID         string    `json:"movie_id"`
	ScreeningTime   time.Time `json:"screening_time"`
	FinalPriceCents int64     `json:"final_price_cents"`
	Version         string    `json:"version"`
	CreatedAt       time.Time `json:"created_at"`
}

func toTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		OwnerID:         t.OwnerID,
		MovieID:         t.MovieID,
		ScreeningTime:   t.ScreeningTime,
		FinalPriceCents: t.FinalPriceCents,
		Version:         t.Version,
		CreatedAt:       t.CreatedAt,
	}
}

func toTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}
