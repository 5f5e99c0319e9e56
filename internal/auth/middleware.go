// internal/auth/middleware.go
//
// HTTP glue for sessions: token extraction, auth cookie, middleware.
//
// Notes:
//   - OptionalAuth decorates requests with the user when a valid token is
//     present and never rejects; guests reach the handler.
//   - RequireAuth answers 401 unless a valid token names an existing user.

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/robalobadob/wordchain/apps/go-server/internal/game"
)

// ctxUserKey is the context key type for storing the authenticated user.
type ctxUserKey struct{}

// WithUser returns ctx carrying u.
func WithUser(ctx context.Context, u game.User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, u)
}

// UserFromContext returns the user stored by the auth middleware.
func UserFromContext(ctx context.Context) (game.User, bool) {
	u, ok := ctx.Value(ctxUserKey{}).(game.User)
	return u, ok
}

// Cookies writes and clears the auth cookie.
type Cookies struct {
	Name   string
	Secure bool // production: Secure + SameSite=None
}

func (c Cookies) sameSite() http.SameSite {
	if c.Secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Set writes the auth token cookie.
func (c Cookies) Set(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		Expires:  exp,
	})
}

// Clear deletes the auth token cookie.
func (c Cookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.sameSite(),
		MaxAge:   -1,
	})
}

// Token extracts a bearer token from the Authorization header or the cookie.
func (c Cookies) Token(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if ck, err := r.Cookie(c.Name); err == nil {
		return ck.Value
	}
	return ""
}

// OptionalAuth attaches the token's user to the request context if valid.
func (s *Service) OptionalAuth(c Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok := c.Token(r); tok != "" {
				if u, err := s.ParseToken(tok); err == nil {
					r = r.WithContext(WithUser(r.Context(), u))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth enforces a valid token for an existing user.
func (s *Service) RequireAuth(c Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := c.Token(r)
			if tok == "" {
				http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
				return
			}
			u, err := s.ParseToken(tok)
			if err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			// Ensure user still exists
			if _, err := s.FindByID(r.Context(), u.ID); err != nil {
				http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}
