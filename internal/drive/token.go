package drive

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// TokenSaver persists a refreshed token pair so the next request for the
// same user starts from the newest credentials. Implemented by the user
// repository.
type TokenSaver interface {
	UpdateTokens(ctx context.Context, id uuid.UUID, access, refresh string, expiry time.Time) error
}

// tokenSource hands out access tokens for one user, refreshing through the
// stored long-lived refresh credential when the current token is expired.
// Refreshed credentials are written back via the saver; a save failure is
// logged but does not fail the request in flight.
type tokenSource struct {
	mu     sync.Mutex
	cfg    *oauth2.Config
	tok    *oauth2.Token
	userID uuid.UUID
	saver  TokenSaver
	logger *slog.Logger
}

func (s *tokenSource) accessToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tok.Valid() {
		return s.tok.AccessToken, nil
	}

	fresh, err := s.cfg.TokenSource(ctx, s.tok).Token()
	if err != nil {
		return "", fmt.Errorf("drive: refreshing access token: %w", err)
	}

	// Google omits the refresh token from refresh responses; keep the one we have.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = s.tok.RefreshToken
	}
	s.tok = fresh

	if s.saver != nil {
		if saveErr := s.saver.UpdateTokens(ctx, s.userID, fresh.AccessToken, fresh.RefreshToken, fresh.Expiry); saveErr != nil {
			s.logger.Warn("persisting refreshed token failed",
				slog.String("user_id", s.userID.String()),
				slog.String("error", saveErr.Error()),
			)
		}
	}

	return fresh.AccessToken, nil
}

// invalidate forces the next accessToken call to refresh. Used when the API
// rejects a token that still looked valid locally.
func (s *tokenSource) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok.Expiry = time.Now().Add(-time.Minute)
}
