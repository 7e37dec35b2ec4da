package client

import (
	"log/slog"
	"net/http"

	"github.com/tendant/simple-account/pkg/account"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/response"
)

// AuthMiddleware resolves the request's bearer token once and stores the caller in
// the request context. Requests without a valid token get 401 "Unauthenticated.".
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := auth.Authenticate(r.Context(), ExtractToken(r))
			if err != nil {
				if errors.IsCode(err, errors.ErrCodeUnauthenticated) {
					slog.Debug("Unauthenticated request to protected resource", "path", r.URL.Path)
				}
				response.Error(w, r, err)
				return
			}

			slog.Debug("authenticated caller", "id", caller.Account.ID, "roles", caller.Account.Roles.Labels())
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireAdmin rejects callers that do not hold the admin role with 403.
// Must be used after AuthMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := RequireCaller(r)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		if !account.IsAuthorizedAdmin(caller.Account) {
			slog.Warn("Caller lacks admin role", "id", caller.Account.ID, "roles", caller.Account.Roles.Labels(), "path", r.URL.Path)
			response.Error(w, r, errors.Forbidden())
			return
		}
		next.ServeHTTP(w, r)
	})
}
