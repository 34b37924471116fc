package handlers

import (
	"net/http"

	"backend/internal/domain"
	"backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	payload := gin.H{
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// RespondDomainError maps typed domain errors to HTTP responses. Admission
// rejections carry their reason code (and remaining, when known) so the UI
// can decide between "fix the form" and "pick another slot".
func RespondDomainError(c *gin.Context, err error) {
	if reason, ok := domain.AdmissionReason(err); ok {
		payload := gin.H{
			"error":      err.Error(),
			"reason":     reason,
			"request_id": middleware.GetRequestID(c),
		}
		if remaining, ok := domain.AdmissionRemaining(err); ok {
			payload["remaining"] = remaining
		}
		status := http.StatusUnprocessableEntity
		if reason == domain.ReasonCapacityExceeded || reason == domain.ReasonConcurrentConflict {
			status = http.StatusConflict
		}
		c.JSON(status, payload)
		return
	}

	switch {
	case domain.IsValidation(err):
		respondCoded(c, http.StatusBadRequest, domain.ReasonValidation, err)
	case domain.IsNotFound(err):
		respondCoded(c, http.StatusNotFound, "not_found", err)
	case domain.IsConflict(err):
		respondCoded(c, http.StatusConflict, "conflict", err)
	case domain.IsPersistence(err):
		respondCoded(c, http.StatusInternalServerError, domain.ReasonPersistence, err)
	default:
		RespondError(c, http.StatusInternalServerError, "erro interno", nil)
	}
}

func respondCoded(c *gin.Context, status int, reason domain.Reason, err error) {
	c.JSON(status, gin.H{
		"error":      err.Error(),
		"reason":     reason,
		"request_id": middleware.GetRequestID(c),
	})
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "corpo vazio", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload inválido", err)
		return false
	}
	return true
}
