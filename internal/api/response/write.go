package response

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/wordrush/internal/model"
)

// JSON writes a JSON response. Match state changes from moment to moment, so
// responses are never cached.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// HostState writes the state a host command produced, current word included
func HostState(w http.ResponseWriter, state model.GameState) {
	JSON(w, http.StatusOK, StateResponse{State: StateFromModel(state)})
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
