package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/domain/matching"
	"spordle/internal/domain/round"
	"spordle/internal/service"
)

// respondError переводит ошибку сервисного слоя в HTTP ответ
func (h *Handlers) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, round.ErrNoMoreTracks):
		c.JSON(http.StatusNotFound, gin.H{"error": "no-more-tracks"})
	case errors.Is(err, matching.ErrMissingInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing-guess-or-correct-title"})
	case errors.Is(err, round.ErrReauthRequired), errors.Is(err, service.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"needs_auth": true})
	case errors.Is(err, service.ErrNoActiveDevice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no-active-device"})
	default:
		h.logger.Error("Request failed",
			zap.String("operation", op),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
