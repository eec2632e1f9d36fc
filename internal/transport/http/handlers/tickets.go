package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/transport/http/middleware"
	"github.com/arklim/cinema-booking/internal/usecase"
)

// TicketHandler serves seat allocation and the ticket ledger.
type TicketHandler struct {
	tickets *usecase.TicketService
}

// NewTicketHandler constructs the ticket handler.
func NewTicketHandler(tickets *usecase.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// RegisterRoutes binds the ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("", h.Buy)
	r.GET("", h.List)
	r.GET("/my", h.ListMine)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Reschedule)
	r.DELETE("/:id", h.Cancel)
}

// Buy allocates a seat for the caller.
func (h *TicketHandler) Buy(c *gin.Context) {
	var req BuyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid ticket payload"))
		return
	}

	ticket, err := h.tickets.Buy(c.Request.Context(), middleware.GetPrincipal(c), req.MovieID, req.ScreeningTime)
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, ticket.Version)
	c.JSON(http.StatusCreated, toTicketResponse(*ticket))
}

// List returns the whole ticket ledger.
func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.tickets.ListAll(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	c.JSON(http.StatusOK, toTicketResponses(tickets))
}

// ListMine returns the caller's own tickets.
func (h *TicketHandler) ListMine(c *gin.Context) {
	tickets, err := h.tickets.ListMine(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	c.JSON(http.StatusOK, toTicketResponses(tickets))
}

// Get returns a single ticket.
func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.tickets.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, ticket.Version)
	c.JSON(http.StatusOK, toTicketResponse(*ticket))
}

// Reschedule moves a ticket to a new screening time under the If-Match precondition.
func (h *TicketHandler) Reschedule(c *gin.Context) {
	var req RescheduleTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid ticket payload"))
		return
	}

	ticket, err := h.tickets.Reschedule(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"),
		usecase.TicketReschedule{ID: req.ID, ScreeningTime: req.ScreeningTime}, ifMatchVersion(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, ticket.Version)
	c.Status(http.StatusNoContent)
}

// Cancel releases the ticket's seat.
func (h *TicketHandler) Cancel(c *gin.Context) {
	if err := h.tickets.Cancel(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		respondCore(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
