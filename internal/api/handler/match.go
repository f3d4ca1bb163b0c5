package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/api/request"
	"github.com/mcoot/wordrush/internal/api/response"
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/web/sse"
)

// MatchHandler handles match endpoints
type MatchHandler struct {
	matchController *match.Controller
	hubManager      *sse.HubManager
	logger          *slog.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchController *match.Controller, hubManager *sse.HubManager, logger *slog.Logger) *MatchHandler {
	return &MatchHandler{
		matchController: matchController,
		hubManager:      hubManager,
		logger:          logger.With(slog.String("component", "match-handler")),
	}
}

func matchID(r *http.Request) model.MatchID {
	return model.MatchID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/matches
func (h *MatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	created, err := h.matchController.CreateMatch(r.Context(), match.CreateParams{
		Config: req.MatchConfig(),
		Teams:  req.TeamNames(),
		Seed:   req.Seed,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateMatchResponse{
		Match:   response.MatchFromModel(created.Match, true),
		HostKey: created.HostKey,
		State:   response.StateFromModel(created.State),
	})
}

// Get handles GET /api/v1/matches/{id}
func (h *MatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)

	record, err := h.matchController.GetMatch(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.MatchResponse{}
	state, err := h.matchController.State(r.Context(), id)
	switch {
	case err == nil:
		st := response.PublicStateFromModel(state)
		resp.State = &st
	case errors.Is(err, model.ErrMatchClosed):
	default:
		WriteError(w, err)
		return
	}
	resp.Match = response.MatchFromModel(record, resp.State != nil)

	response.JSON(w, http.StatusOK, resp)
}

// Peek handles GET /api/v1/matches/{id}/peek
func (h *MatchHandler) Peek(w http.ResponseWriter, r *http.Request) {
	word, ok, err := h.matchController.PeekNextWord(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PeekResponse{Word: word, Available: ok})
}

// History handles GET /api/v1/matches/{id}/history
func (h *MatchHandler) History(w http.ResponseWriter, r *http.Request) {
	turns, err := h.matchController.History(r.Context(), matchID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(turns))
}

// Restart handles POST /api/v1/matches/{id}/restart
func (h *MatchHandler) Restart(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.matchController.RestartMatch)
}

// StartTurn handles POST /api/v1/matches/{id}/turn/start
func (h *MatchHandler) StartTurn(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.matchController.StartTurn)
}

// Correct handles POST /api/v1/matches/{id}/turn/correct
func (h *MatchHandler) Correct(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.matchController.Correct)
}

// Skip handles POST /api/v1/matches/{id}/turn/skip
func (h *MatchHandler) Skip(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.matchController.Skip)
}

// Next handles POST /api/v1/matches/{id}/turn/next
func (h *MatchHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.writeState(w, r, h.matchController.NextTurn)
}

// Override handles POST /api/v1/matches/{id}/turn/outcomes/{index}
func (h *MatchHandler) Override(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("Outcome index must be an integer"))
		return
	}

	var req request.OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if req.Correct == nil {
		WriteError(w, NewInvalidRequestError("correct is required"))
		return
	}

	state, err := h.matchController.Override(r.Context(), matchID(r), index, *req.Correct)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.HostState(w, state)
}

// Delete handles DELETE /api/v1/matches/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.matchController.CloseMatch(r.Context(), matchID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/matches/{id}/events
func (h *MatchHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := matchID(r)

	state, err := h.matchController.State(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	initial, err := sse.EncodeEvent(model.Event{
		Type:    model.EventStateChanged,
		MatchID: id,
		State:   state,
	})
	if err != nil {
		WriteError(w, NewInternalError())
		return
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, r.RemoteAddr, initial)
}

// writeState runs a command and writes the resulting state
func (h *MatchHandler) writeState(
	w http.ResponseWriter,
	r *http.Request,
	cmd func(ctx context.Context, id model.MatchID) (model.GameState, error),
) {
	id := matchID(r)
	state, err := cmd(r.Context(), id)
	if err != nil {
		if !errors.Is(err, model.ErrInvalidCommand) {
			h.logger.Warn("match command failed",
				slog.String("match_id", string(id)),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		}
		WriteError(w, err)
		return
	}

	response.HostState(w, state)
}
