package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/api/handler"
	"github.com/mcoot/wordrush/internal/api/middleware"
	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/services/words"
	"github.com/mcoot/wordrush/internal/web/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	MatchController *match.Controller
	WordService     *words.Service
	HubManager      *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register adds the API routes to an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	// Create handlers
	matchHandler := handler.NewMatchHandler(cfg.MatchController, hubManager, cfg.Logger)
	healthHandler := handler.NewHealthHandler(cfg.WordService, cfg.MatchController)

	// Create middleware
	hostKeyMiddleware := middleware.HostKey(cfg.MatchController)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)

	// Public match routes
	api.HandleFunc("/matches", matchHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/matches/{id}", matchHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/history", matchHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/matches/{id}/events", matchHandler.Events).Methods(http.MethodGet)

	// Host routes (require the match's host key)
	host := api.PathPrefix("/matches/{id}").Subrouter()
	host.Use(hostKeyMiddleware)
	host.HandleFunc("", matchHandler.Delete).Methods(http.MethodDelete)
	host.HandleFunc("/peek", matchHandler.Peek).Methods(http.MethodGet)
	host.HandleFunc("/restart", matchHandler.Restart).Methods(http.MethodPost)
	host.HandleFunc("/turn/start", matchHandler.StartTurn).Methods(http.MethodPost)
	host.HandleFunc("/turn/correct", matchHandler.Correct).Methods(http.MethodPost)
	host.HandleFunc("/turn/skip", matchHandler.Skip).Methods(http.MethodPost)
	host.HandleFunc("/turn/next", matchHandler.Next).Methods(http.MethodPost)
	host.HandleFunc("/turn/outcomes/{index:[0-9]+}", matchHandler.Override).Methods(http.MethodPost)
}
