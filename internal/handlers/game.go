package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"spordle/internal/middleware"
)

// defaultSnippetSeconds используется, если длительность не передана
const defaultSnippetSeconds = 5

type trackResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	URI        string   `json:"uri"`
	PreviewURL string   `json:"preview_url"`
}

type checkGuessRequest struct {
	Guess        string `json:"guess"`
	CorrectTitle string `json:"correct_title"`
}

type checkGuessResponse struct {
	Accepted         bool   `json:"accepted"`
	Guess            string `json:"guess"`
	Ratio            int    `json:"ratio"`
	NormalizedAnswer string `json:"normalized_answer"`
	RawAnswerTitle   string `json:"raw_answer_title"`
}

type playSnippetRequest struct {
	URI      string `json:"uri"`
	Duration *int   `json:"duration"`
}

// SeedTrack выбирает трек для нового раунда
func (h *Handlers) SeedTrack(c *gin.Context) {
	track, err := h.game.NextTrack(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, "seed track", err)
		return
	}

	artists := track.Artists
	if artists == nil {
		artists = []string{}
	}

	c.JSON(http.StatusOK, trackResponse{
		ID:         track.ID,
		Name:       track.Title,
		Artists:    artists,
		URI:        track.PlayableRef,
		PreviewURL: track.PreviewURL,
	})
}

// CheckGuess проверяет ответ пользователя
func (h *Handlers) CheckGuess(c *gin.Context) {
	var req checkGuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing-guess-or-correct-title"})
		return
	}

	verdict, err := h.game.CheckGuess(c.Request.Context(), middleware.SessionID(c), req.Guess, req.CorrectTitle)
	if err != nil {
		h.respondError(c, "check guess", err)
		return
	}

	c.JSON(http.StatusOK, checkGuessResponse{
		Accepted:         verdict.Accepted,
		Guess:            strings.TrimSpace(req.Guess),
		Ratio:            verdict.Score,
		NormalizedAnswer: verdict.NormalizedAnswer,
		RawAnswerTitle:   verdict.RawAnswerTitle,
	})
}

// PlaySnippet проигрывает фрагмент трека на активном устройстве
func (h *Handlers) PlaySnippet(c *gin.Context) {
	var req playSnippetRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URI == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing-uri"})
		return
	}

	seconds := defaultSnippetSeconds
	if req.Duration != nil {
		seconds = *req.Duration
	}

	played, err := h.game.PlaySnippet(c.Request.Context(), middleware.SessionID(c), req.URI, time.Duration(seconds)*time.Second)
	if err != nil {
		h.respondError(c, "play snippet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "played", "duration": played.Seconds()})
}

// Stats возвращает статистику попыток сессии
func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.game.Stats(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.respondError(c, "stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rounds":   stats.Rounds,
		"attempts": stats.Attempts,
		"correct":  stats.Correct,
		"accuracy": stats.Accuracy(),
	})
}

// Reset начинает прохождение заново, не сбрасывая авторизацию
func (h *Handlers) Reset(c *gin.Context) {
	if err := h.game.ResetRound(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.respondError(c, "reset", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
