package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/web/view"
)

// MatchHandler serves match scoreboard pages
type MatchHandler struct {
	matchController *match.Controller
	logger          *slog.Logger
}

// NewMatchHandler creates a new MatchHandler
func NewMatchHandler(matchController *match.Controller, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		matchController: matchController,
		logger:          logger.With(slog.String("component", "web-match")),
	}
}

// View renders the scoreboard for GET /matches/{id}
func (h *MatchHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.MatchID(mux.Vars(r)["id"])

	record, err := h.matchController.GetMatch(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := view.MatchPageData{Match: record}
	data.State, err = h.matchController.State(r.Context(), id)
	if err != nil && !errors.Is(err, model.ErrMatchClosed) {
		h.renderError(w, r, err)
		return
	}

	data.Turns, err = h.matchController.History(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.render(w, r, http.StatusOK, view.MatchPage(data))
}

func (h *MatchHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrMatchNotFound) {
		h.render(w, r, http.StatusNotFound, view.ErrorPage("Match not found", "There is no match with that ID."))
		return
	}

	h.logger.Error("failed to load match page",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	h.render(w, r, http.StatusInternalServerError, view.ErrorPage("Something went wrong", "The match could not be loaded."))
}

func (h *MatchHandler) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", slog.Any("error", err))
	}
}
