package client

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/login"
)

// contextKey is a value for use with context.WithValue. It's used as
// a pointer so it fits in an interface{} without allocation. This technique
// for defining context keys was copied from Go 1.7's new use of context in net/http.
type contextKey struct {
	name string
}

func (k *contextKey) String() string {
	return "account context value " + k.name
}

var (
	CallerKey = &contextKey{"Caller"}
)

// Authenticator resolves a raw bearer token to the caller behind it
type Authenticator interface {
	Authenticate(ctx context.Context, rawToken string) (login.Caller, error)
}

// WithCaller returns a copy of ctx carrying caller
func WithCaller(ctx context.Context, caller login.Caller) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

// CallerFromContext returns the caller stored by AuthMiddleware
func CallerFromContext(ctx context.Context) (login.Caller, bool) {
	caller, ok := ctx.Value(CallerKey).(login.Caller)
	return caller, ok
}

// RequireCaller returns the caller stored by AuthMiddleware, or an UNAUTHENTICATED
// error when the request did not pass through it.
func RequireCaller(r *http.Request) (login.Caller, error) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		return login.Caller{}, errors.Unauthenticated()
	}
	return caller, nil
}

// ExtractToken finds the bearer token on a request: the Authorization header first,
// then the "jwt" cookie.
func ExtractToken(r *http.Request) string {
	for _, find := range []func(*http.Request) string{jwtauth.TokenFromHeader, jwtauth.TokenFromCookie} {
		if token := find(r); token != "" {
			return token
		}
	}
	return ""
}
