package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/middleware"
	"spordle/internal/service"
)

// Login перенаправляет пользователя на авторизацию Spotify
func (h *Handlers) Login(c *gin.Context) {
	authURL, err := h.sessions.StartLogin(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, "login", err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback завершает авторизацию Spotify
func (h *Handlers) Callback(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	err := h.sessions.CompleteLogin(c.Request.Context(), sessionID, c.Query("code"), c.Query("state"))

	switch {
	case err == nil:
		c.Redirect(http.StatusFound, "/game")
	case errors.Is(err, service.ErrMissingCode):
		c.String(http.StatusBadRequest, "Missing code")
	case errors.Is(err, service.ErrStateMismatch):
		c.String(http.StatusBadRequest, "State mismatch")
	default:
		h.logger.Error("Spotify callback failed", zap.String("session_id", sessionID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Login failed")
	}
}

// Logout завершает игровую сессию
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.logger.Warn("Failed to close session", zap.Error(err))
	}
	h.clearCookie(c)
	c.Redirect(http.StatusFound, "/")
}

// SessionInfo сообщает, нужна ли авторизация
func (h *Handlers) SessionInfo(c *gin.Context) {
	ok, err := h.sessions.IsAuthenticated(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, "session info", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"needs_auth": !ok})
}
