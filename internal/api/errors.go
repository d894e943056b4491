package api

import (
	"climblog/climbing-app/internal/service"
	"climblog/climbing-app/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes. Unknown errors are 500s.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrClimbNotFound),
		errors.Is(err, service.ErrNoOpenSession):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSessionAccessDenied),
		errors.Is(err, service.ErrClimbAccessDenied),
		errors.Is(err, service.ErrInvalidObjectKey):
		return http.StatusForbidden
	case errors.Is(err, service.ErrSessionCompleted),
		errors.Is(err, service.ErrSessionBusy),
		errors.Is(err, service.ErrClimbExists),
		errors.Is(err, service.ErrUploadExists),
		errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrClimbValidation),
		errors.Is(err, service.ErrInvalidClimbType),
		errors.Is(err, service.ErrInvalidIntensity),
		errors.Is(err, service.ErrProfileValidation),
		errors.Is(err, service.ErrNothingToUpdate),
		errors.Is(err, service.ErrMissingCredentials),
		errors.Is(err, storage.ErrUnsupportedContentType):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error. Internal errors are recorded on the
// context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error, action string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		abortWithError(c, code, "An unexpected error occurred while trying to "+action)
		return
	}
	abortWithError(c, code, err.Error())
}
