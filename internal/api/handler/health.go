package handler

import (
	"net/http"

	"github.com/mcoot/wordrush/internal/api/response"
)

// WordCounter reports the size of the loaded word pool
type WordCounter interface {
	Count() int
}

// LiveCounter reports the number of running matches
type LiveCounter interface {
	LiveCount() int
}

// HealthHandler handles GET /api/v1/health
type HealthHandler struct {
	words   WordCounter
	matches LiveCounter
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(words WordCounter, matches LiveCounter) *HealthHandler {
	return &HealthHandler{words: words, matches: matches}
}

// Get reports server health
func (h *HealthHandler) Get(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:      "ok",
		Words:       h.words.Count(),
		LiveMatches: h.matches.LiveCount(),
	})
}
