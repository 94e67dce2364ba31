package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spordle/internal/middleware"
)

// Session находит или создает игровую сессию по cookie и кладет ее ID в контекст
func (h *Handlers) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(h.cookie.CookieName)

		session, err := h.sessions.EnsureSession(c.Request.Context(), id)
		if err != nil {
			h.logger.Error("Failed to ensure session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}

		// Cookie продлевается вместе со сроком жизни сессии
		h.setCookie(c, session.ID, int(h.cookie.TTL.Seconds()))
		c.Set(middleware.SessionIDKey, session.ID)
		c.Next()
	}
}

func (h *Handlers) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.SecureCookie, true)
}

func (h *Handlers) clearCookie(c *gin.Context) {
	h.setCookie(c, "", -1)
}
