package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/cinema-booking/internal/usecase"
)

// ErrorCase maps a sentinel error to an HTTP status code and response message.
type ErrorCase struct {
	Err     error
	Status  int
	Message string
}

// coreCases is the shared outcome-to-status mapping. Precondition failures use
// 412 and 428, domain rejections use 400, and missing credentials look the
// same as missing permissions.
var coreCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "forbidden"},
	{Err: usecase.ErrNotFound, Status: http.StatusNotFound, Message: "not found"},
	{Err: usecase.ErrVersionMismatch, Status: http.StatusPreconditionFailed, Message: "version mismatch"},
	{Err: usecase.ErrVersionRequired, Status: http.StatusPreconditionRequired, Message: "version required"},
	{Err: usecase.ErrValidation, Status: http.StatusBadRequest, Message: "validation failed"},
	{Err: usecase.ErrCapacityExceeded, Status: http.StatusBadRequest, Message: "no seats available"},
	{Err: usecase.ErrReferentialConflict, Status: http.StatusBadRequest, Message: "movie has sold tickets"},
	{Err: usecase.ErrLoginTaken, Status: http.StatusBadRequest, Message: "login already taken"},
}

// RespondWithMappedError resolves the provided error against known cases or falls back to a generic response.
func RespondWithMappedError(c *gin.Context, err error, cases []ErrorCase, fallbackStatus int, fallbackMessage string) {
	if err == nil {
		c.Status(http.StatusOK)
		return
	}

	for _, cs := range cases {
		if cs.Err == nil {
			continue
		}
		if errors.Is(err, cs.Err) {
			c.JSON(cs.Status, NewErrorResponse(c, cs.Message))
			return
		}
	}

	c.JSON(fallbackStatus, NewErrorResponse(c, fallbackMessage))
}

// respondCore maps an error using the shared case table.
func respondCore(c *gin.Context, err error) {
	RespondWithMappedError(c, err, coreCases, http.StatusInternalServerError, "internal error")
}
