package middleware

import (
	"context"
	"log"
	"net/http"

	"campus-feedback-backend/internal/models"
)

// CookieName is the session cookie holding the opaque token.
const CookieName = "feedback_session"

type contextKey string

const userKey contextKey = "session_user"

// SessionStore is the slice of the session repository this middleware needs.
type SessionStore interface {
	FindByToken(ctx context.Context, token string) (*models.Session, error)
}

// Session resolves the session cookie into the signed-in user and stores the
// snapshot in the request context. It never rejects the request itself —
// handlers decide whether a missing session is an error, with their own
// messages.
func Session(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := store.FindByToken(r.Context(), cookie.Value)
			if err != nil {
				log.Printf("Error looking up session: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil || session.IsExpired() {
				next.ServeHTTP(w, r)
				return
			}

			user := session.User
			ctx := context.WithValue(r.Context(), userKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the session user snapshot, or nil when no valid session
// accompanied the request.
func GetUser(ctx context.Context) *models.SessionUser {
	user, _ := ctx.Value(userKey).(*models.SessionUser)
	return user
}

// WithUser injects a session user into a context. Test helper.
func WithUser(ctx context.Context, user *models.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}
