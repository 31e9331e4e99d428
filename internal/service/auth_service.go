package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arko/letter-drive/internal/config"
	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// SessionTTL bounds both the JWT expiry and the session cookie max-age.
const SessionTTL = 7 * 24 * time.Hour

const defaultUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/drive.file",
}

// GoogleOAuthConfig builds the OAuth application config shared by the
// login flow and the Drive client factory.
func GoogleOAuthConfig(cfg *config.Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.ServerURL + "/api/auth/google/callback",
		Scopes:       googleScopes,
	}
}

// TokenClaims are the session token claims: the user id as subject plus
// the email, both echoed back by /api/auth/current-user.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo repository.UserRepository
	oauth    *oauth2.Config
	cfg      *config.Config

	// Overridable for tests.
	httpClient  *http.Client
	userinfoURL string
}

func NewAuthService(userRepo repository.UserRepository, oauth *oauth2.Config, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		oauth:       oauth,
		cfg:         cfg,
		httpClient:  http.DefaultClient,
		userinfoURL: defaultUserinfoURL,
	}
}

// StateToken returns a random nonce for the OAuth state parameter.
func (s *AuthService) StateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// AuthCodeURL is the Google consent screen URL. offline access plus a
// forced consent prompt make Google return a refresh token on every login.
func (s *AuthService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// HandleCallback exchanges the authorization code, fetches the Google
// profile, and upserts the user record with the fresh token pair.
func (s *AuthService) HandleCallback(ctx context.Context, code string) (*domain.User, error) {
	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}

	profile, err := s.fetchProfile(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		GoogleID:     profile.ID,
		Email:        profile.Email,
		Name:         profile.Name,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenExpiry:  tok.Expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	// Re-read so a pre-existing user keeps its original id and folder mapping.
	return s.userRepo.GetByGoogleID(ctx, profile.ID)
}

func (s *AuthService) fetchProfile(ctx context.Context, accessToken string) (*googleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userinfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching google profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching google profile: HTTP %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding google profile: %w", err)
	}
	if profile.ID == "" {
		return nil, errors.New("google profile has no id")
	}
	return &profile, nil
}

// IssueToken mints a signed session token with a fixed 7-day expiry.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyToken validates signature and expiry. Validity is decided entirely
// here; nothing about the session is stored server-side.
func (s *AuthService) VerifyToken(raw string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
