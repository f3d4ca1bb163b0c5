package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mcoot/wordrush/internal/web/view"
)

// LiveCounter reports the number of running matches
type LiveCounter interface {
	LiveCount() int
}

// HomeHandler handles the home page
type HomeHandler struct {
	matches LiveCounter
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(matches LiveCounter) *HomeHandler {
	return &HomeHandler{matches: matches}
}

// Home renders the home page, or redirects to a scoreboard when a match ID is given
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	if id := strings.TrimSpace(r.URL.Query().Get("match")); id != "" {
		http.Redirect(w, r, "/matches/"+url.PathEscape(id), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.HomePage(h.matches.LiveCount()).Render(r.Context(), w); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
