package handlers

import (
	"log"
	"net/http"

	"github.com/arko/letter-drive/internal/api/middleware"
	"github.com/arko/letter-drive/internal/config"
	"github.com/arko/letter-drive/internal/service"
)

const stateCookie = "oauth_state"

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

// GoogleLogin redirects to the Google consent screen with a CSRF state
// nonce stored in a short-lived cookie.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := h.authService.StateToken()
	if err != nil {
		log.Printf("ERROR [auth.GoogleLogin] failed to generate state token: %v", err)
		respondServerError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	http.Redirect(w, r, h.authService.AuthCodeURL(state), http.StatusFound)
}

// GoogleCallback finishes the OAuth flow: state check, code exchange, user
// upsert, session cookie, redirect to the front-end dashboard.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != state {
		respondError(w, http.StatusUnauthorized, "Invalid OAuth state")
		return
	}
	clearCookie(w, stateCookie)

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, h.cfg.ClientURL+"/login", http.StatusFound)
		return
	}

	user, err := h.authService.HandleCallback(r.Context(), code)
	if err != nil {
		log.Printf("ERROR [auth.GoogleCallback] authentication failed: %v", err)
		http.Redirect(w, r, h.cfg.ClientURL+"/login", http.StatusFound)
		return
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		log.Printf("ERROR [auth.GoogleCallback] failed to issue session token: %v", err)
		respondServerError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(service.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,                  // Required for HTTPS
		SameSite: http.SameSiteNoneMode, // Required for cross-origin
	})

	http.Redirect(w, r, h.cfg.ClientURL+"/dashboard", http.StatusFound)
}

// Logout clears the session cookie. The token itself stays valid until it
// expires; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w, middleware.SessionCookie)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// CurrentUser returns the decoded session claims without touching the
// database.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookie)
	if err != nil || cookie.Value == "" {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	claims, err := h.authService.VerifyToken(cookie.Value)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{
			"id":    claims.Subject,
			"email": claims.Email,
		},
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
