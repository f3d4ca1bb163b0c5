package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/services/match"
	"github.com/mcoot/wordrush/internal/web/handler"
	"github.com/mcoot/wordrush/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger          *slog.Logger
	MatchController *match.Controller
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register adds the web routes to an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.MatchController)
	matchHandler := handler.NewMatchHandler(cfg.MatchController, cfg.Logger)

	pages := r.NewRoute().Subrouter()
	pages.Use(recoveryMiddleware)
	pages.Use(loggingMiddleware)

	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/matches/{id}", matchHandler.View).Methods(http.MethodGet)
}
