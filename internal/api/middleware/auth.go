package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const userKey contextKey = "user"

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "token"

// Auth resolves the session cookie to a user record and attaches it to the
// request context. Missing, malformed and expired tokens all get the same
// generic 401 so callers cannot probe which case they hit; only a verified
// token pointing at a deleted user yields 404.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				respondError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			claims, err := authService.VerifyToken(cookie.Value)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token verification failed: %v", err)
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] failed to parse user ID: %v", err)
				respondError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user, err := authService.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					respondError(w, http.StatusNotFound, "User not found")
					return
				}
				log.Printf("ERROR [middleware.Auth] failed to load user: %v", err)
				respondError(w, http.StatusInternalServerError, "Server error")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the user the Auth middleware resolved for this request.
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
