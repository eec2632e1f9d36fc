package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/transport/http/middleware"
	"github.com/arklim/cinema-booking/internal/usecase"
)

// MovieHandler serves the movie catalog.
type MovieHandler struct {
	movies *usecase.MovieService
}

// NewMovieHandler constructs the movie handler.
func NewMovieHandler(movies *usecase.MovieService) *MovieHandler {
	return &MovieHandler{movies: movies}
}

// RegisterRoutes binds the catalog endpoints.
func (h *MovieHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Create)
	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.GET("/:id/availability", h.Availability)
	r.PUT("/:id", h.Update)
	r.DELETE("/:id", h.Delete)
}

// Create adds a movie to the catalog.
func (h *MovieHandler) Create(c *gin.Context) {
	var req MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid movie payload"))
		return
	}

	movie, err := h.movies.Create(c.Request.Context(), middleware.GetPrincipal(c), usecase.MovieInput{
		Title:          req.Title,
		ScreeningRoom:  req.ScreeningRoom,
		TotalSeats:     req.TotalSeats,
		BasePriceCents: req.BasePriceCents,
	})
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, movie.Version)
	c.JSON(http.StatusCreated, toMovieResponse(*movie))
}

// List returns the whole catalog.
func (h *MovieHandler) List(c *gin.Context) {
	movies, err := h.movies.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	c.JSON(http.StatusOK, toMovieResponses(movies))
}

// Get returns a single movie.
func (h *MovieHandler) Get(c *gin.Context) {
	movie, err := h.movies.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, movie.Version)
	c.JSON(http.StatusOK, toMovieResponse(*movie))
}

// Availability reports the open seat count for a movie.
func (h *MovieHandler) Availability(c *gin.Context) {
	id := c.Param("id")
	seats, err := h.movies.Availability(c.Request.Context(), middleware.GetPrincipal(c), id)
	if err != nil {
		respondCore(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailabilityResponse{MovieID: id, SeatsLeft: seats})
}

// Update replaces the writable movie fields under the If-Match precondition.
func (h *MovieHandler) Update(c *gin.Context) {
	var req MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid movie payload"))
		return
	}

	movie, err := h.movies.Update(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), usecase.MovieInput{
		ID:             req.ID,
		Title:          req.Title,
		ScreeningRoom:  req.ScreeningRoom,
		TotalSeats:     req.TotalSeats,
		BasePriceCents: req.BasePriceCents,
	}, ifMatchVersion(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, movie.Version)
	c.Status(http.StatusNoContent)
}

// Delete removes a movie that has no sold tickets.
func (h *MovieHandler) Delete(c *gin.Context) {
	if err := h.movies.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		respondCore(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
