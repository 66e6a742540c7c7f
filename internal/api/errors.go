package api

import (
	"errors"
	"log"
	"net/http"

	"fittrack/fitness-app/internal/coach"
	"fittrack/fitness-app/internal/repository"
	"fittrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// statusFor maps service and repository errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidDetailKey):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotToday):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrPlanNotFound),
		errors.Is(err, service.ErrProfileRequired),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, coach.ErrCollaborator):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err as a JSON error. Internal errors are logged
// and replaced by fallback so storage details never reach the client.
func respondWithError(c *gin.Context, err error, fallback string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		abortWithError(c, code, fallback)
		return
	}
	abortWithError(c, code, err.Error())
}
