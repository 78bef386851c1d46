package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/portaria/internal/domain/models"
)

// errorResponse maps a service error to an HTTP status and JSON body.
func errorResponse(err error) (int, gin.H) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, gin.H{
			"error":   verr.Error(),
			"missing": verr.Missing,
			"invalid": verr.Invalid,
		}
	case errors.Is(err, models.ErrAuth), errors.Is(err, models.ErrNotLoggedIn):
		return http.StatusUnauthorized, gin.H{"error": err.Error()}
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}
	case models.IsStoreError(err):
		return http.StatusBadGateway, gin.H{"error": err.Error()}
	default:
		return http.StatusInternalServerError, gin.H{"error": "internal error"}
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
	}
	c.JSON(status, body)
}
