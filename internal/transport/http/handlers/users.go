package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/core/policy"
	"github.com/arklim/cinema-booking/internal/core/port"
	"github.com/arklim/cinema-booking/internal/transport/http/middleware"
	"github.com/arklim/cinema-booking/internal/usecase"
)

// UserHandler serves one account collection (/clients, /staff or /admins).
// The resource kind is fixed per instance; the routes decide which kinds a
// deployment exposes.
type UserHandler struct {
	users *usecase.UserService
	kind  policy.ResourceKind
}

// NewUserHandler constructs a handler bound to a single user kind.
func NewUserHandler(users *usecase.UserService, kind policy.ResourceKind) *UserHandler {
	return &UserHandler{users: users, kind: kind}
}

// RegisterRoutes binds the account collection endpoints. Extra middlewares
// (rate limiting) wrap the registration route only.
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, registerMiddlewares ...gin.HandlerFunc) {
	createChain := append([]gin.HandlerFunc{}, registerMiddlewares...)
	createChain = append(createChain, h.Create)
	r.POST("", createChain...)

	r.GET("", h.List)
	r.GET("/:id", h.Get)
	r.PUT("/:id", h.Update)
	r.POST("/:id/activate", h.Activate)
	r.POST("/:id/deactivate", h.Deactivate)
	r.DELETE("/:id", h.Delete)
}

// Create registers a new account of the handler's kind.
func (h *UserHandler) Create(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.users.Register(c.Request.Context(), middleware.GetPrincipal(c), h.kind, req.Login, req.Password)
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, user.Version)
	c.JSON(http.StatusCreated, toUserResponse(*user))
}

// List returns accounts of the handler's kind.
func (h *UserHandler) List(c *gin.Context) {
	filter := port.UserFilter{}
	if active := c.Query("active"); active == "true" || active == "false" {
		val := active == "true"
		filter.Active = &val
	}

	users, err := h.users.List(c.Request.Context(), middleware.GetPrincipal(c), h.kind, filter)
	if err != nil {
		respondCore(c, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponses(users))
}

// Get returns a single account.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.GetPrincipal(c), h.kind, c.Param("id"))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, user.Version)
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// Update replaces the mutable account fields under the If-Match precondition.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetPrincipal(c), h.kind, c.Param("id"),
		usecase.ProfileUpdate{ID: req.ID, Login: req.Login, Password: req.Password}, ifMatchVersion(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, user.Version)
	c.Status(http.StatusNoContent)
}

// Activate re-enables a deactivated account.
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate blocks an account from logging in.
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	user, err := h.users.SetActive(c.Request.Context(), middleware.GetPrincipal(c), h.kind, c.Param("id"), active)
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, user.Version)
	c.Status(http.StatusNoContent)
}

// Delete removes an account permanently.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.GetPrincipal(c), h.kind, c.Param("id")); err != nil {
		respondCore(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MeHandler serves the caller's own account.
type MeHandler struct {
	users *usecase.UserService
}

// NewMeHandler constructs the self-profile handler.
func NewMeHandler(users *usecase.UserService) *MeHandler {
	return &MeHandler{users: users}
}

// RegisterRoutes binds the self-profile endpoints.
func (h *MeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.Me)
	r.PUT("/me", h.UpdateMe)
}

// Me returns the authenticated caller's account.
func (h *MeHandler) Me(c *gin.Context) {
	user, err := h.users.GetSelf(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, user.Version)
	c.JSON(http.StatusOK, toUserResponse(*user))
}

// UpdateMe replaces the caller's own mutable fields under If-Match.
func (h *MeHandler) UpdateMe(c *gin.Context) {
	p := middleware.GetPrincipal(c)
	if p.IsAnonymous() {
		c.JSON(http.StatusForbidden, NewErrorResponse(c, "forbidden"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), p, policy.UserKind(p.Role), p.UserID,
		usecase.ProfileUpdate{ID: req.ID, Login: req.Login, Password: req.Password}, ifMatchVersion(c))
	if err != nil {
		respondCore(c, err)
		return
	}

	setETag(c, user.Version)
	c.Status(http.StatusNoContent)
}
