package drive

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/arko/letter-drive/internal/domain"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL   = "https://www.googleapis.com/drive/v3"
	defaultUploadURL = "https://www.googleapis.com/upload/drive/v3"
	userAgent        = "letter-drive/0.1"
)

// Client talks to the Drive API with one user's credentials. It handles
// bearer auth, a single forced token refresh after a 401, and error
// classification. A client is built per request and not shared across users.
type Client struct {
	baseURL    string
	uploadURL  string
	httpClient *http.Client
	token      *tokenSource
	logger     *slog.Logger
}

// Factory builds per-user Drive clients from the shared OAuth application
// config. Refreshed tokens are persisted through saver.
type Factory struct {
	cfg        *oauth2.Config
	saver      TokenSaver
	httpClient *http.Client
	logger     *slog.Logger

	// Overridable endpoints for tests.
	baseURL   string
	uploadURL string
}

func NewFactory(cfg *oauth2.Config, saver TokenSaver, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		cfg:        cfg,
		saver:      saver,
		httpClient: http.DefaultClient,
		logger:     logger,
		baseURL:    defaultBaseURL,
		uploadURL:  defaultUploadURL,
	}
}

// ForUser returns a client authorized with the user's stored token pair.
func (f *Factory) ForUser(user *domain.User) *Client {
	return &Client{
		baseURL:    f.baseURL,
		uploadURL:  f.uploadURL,
		httpClient: f.httpClient,
		logger:     f.logger,
		token: &tokenSource{
			cfg: f.cfg,
			tok: &oauth2.Token{
				AccessToken:  user.AccessToken,
				RefreshToken: user.RefreshToken,
				Expiry:       user.TokenExpiry,
			},
			userID: user.ID,
			saver:  f.saver,
			logger: f.logger,
		},
	}
}

// do executes one API request. On a 401 the cached token is invalidated and
// the request retried exactly once with a freshly refreshed token; every
// other failure is classified and returned as *Error. The caller owns the
// response body on success.
func (c *Client) do(ctx context.Context, method, url, contentType string, body []byte) (*http.Response, error) {
	retried := false
	for {
		tok, err := c.token.accessToken(ctx)
		if err != nil {
			return nil, err
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("User-Agent", userAgent)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return resp, nil
		}

		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		if resp.StatusCode == http.StatusUnauthorized && !retried {
			c.logger.Warn("unauthorized, retrying with refreshed token",
				slog.String("method", method),
				slog.String("url", url),
			)
			c.token.invalidate()
			retried = true
			continue
		}

		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    apiMessage(errBody),
			Err:        classifyStatus(resp.StatusCode),
		}
	}
}
