package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/wordrush/internal/api/apierr"
	"github.com/mcoot/wordrush/internal/model"
)

// HostKeyVerifier checks a match's host key
type HostKeyVerifier interface {
	VerifyHostKey(ctx context.Context, id model.MatchID, key string) error
}

// HostKey creates middleware that requires the match's host key as a bearer
// token. The match ID is read from the {id} route variable.
func HostKey(verifier HostKeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ExtractToken(r)
			if key == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			id := model.MatchID(mux.Vars(r)["id"])
			if err := verifier.VerifyHostKey(r.Context(), id, key); err != nil {
				apierr.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ExtractToken extracts the bearer token from the request
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
