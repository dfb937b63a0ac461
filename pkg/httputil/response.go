package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/clinic-booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Status: "success",
		Data:   data,
	})
}

// RespondWithError maps an AppError code to an HTTP status and a stable
// machine-readable kind. Unknown errors become opaque 500s.
func RespondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, Response{
			Status:  "error",
			Message: "internal server error",
			Kind:    "internal",
		})
		return
	}

	status, kind := statusFor(appErr.Code)
	c.JSON(status, Response{
		Status:  "error",
		Message: appErr.Message,
		Kind:    kind,
	})
}

func statusFor(code apperrors.ErrorCode) (int, string) {
	switch code {
	case apperrors.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized, "unauthenticated"
	case apperrors.ErrForbidden:
		return http.StatusForbidden, "forbidden"
	case apperrors.ErrConflict:
		return http.StatusConflict, "slot_conflict"
	case apperrors.ErrInvalidSlot:
		return http.StatusUnprocessableEntity, "invalid_slot"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
