package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/usecase"
)

// AuthHandler exposes the login endpoint.
type AuthHandler struct {
	auth     *usecase.AuthService
	tokenTTL time.Duration
}

// NewAuthHandler constructs the auth handler.
func NewAuthHandler(auth *usecase.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, tokenTTL: tokenTTL}
}

// RegisterRoutes binds auth endpoints. Extra middlewares (rate limiting) wrap
// the login route only.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	handlerChain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	handlerChain = append(handlerChain, h.Login)
	r.POST("/login", handlerChain...)
}

// Login authenticates credentials and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrUserInactive, Status: http.StatusForbidden, Message: "account deactivated"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.tokenTTL.Seconds()),
		User:        toUserResponse(result.User),
	})
}
