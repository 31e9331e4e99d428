package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arko/letter-drive/internal/api/middleware"
	"github.com/arko/letter-drive/internal/service"
	"github.com/arko/letter-drive/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthMiddleware(users *testutil.FakeUserRepo) (func(http.Handler) http.Handler, *service.AuthService) {
	cfg := testutil.TestConfig()
	authService := service.NewAuthService(users, service.GoogleOAuthConfig(cfg), cfg)
	return middleware.Auth(authService), authService
}

// echoUser responds with the email of the user the middleware attached.
func echoUser(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.GetUser(r.Context())
		require.True(t, ok, "handler must see the resolved user")
		w.Write([]byte(user.Email))
	})
}

func TestAuth_ValidSession(t *testing.T) {
	users := testutil.NewFakeUserRepo()
	auth, authService := newAuthMiddleware(users)

	user := testutil.NewUserBuilder().WithEmail("alice@example.com").User()
	users.Add(user)

	token, err := authService.IssueToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/letters", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()

	auth(echoUser(t)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice@example.com", rec.Body.String())
}

func TestAuth_Rejections(t *testing.T) {
	users := testutil.NewFakeUserRepo()
	auth, authService := newAuthMiddleware(users)

	deleted := testutil.NewUserBuilder().User()
	tokenForDeleted, err := authService.IssueToken(deleted)
	require.NoError(t, err)

	tests := []struct {
		name       string
		cookie     *http.Cookie
		wantStatus int
		wantBody   string
	}{
		{
			name:       "no cookie",
			cookie:     nil,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Not authenticated",
		},
		{
			name:       "empty cookie",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: ""},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Not authenticated",
		},
		{
			name:       "garbage token",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: "not.a.jwt"},
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid token",
		},
		{
			name:       "valid token for deleted user",
			cookie:     &http.Cookie{Name: middleware.SessionCookie, Value: tokenForDeleted},
			wantStatus: http.StatusNotFound,
			wantBody:   "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/letters", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("the protected handler must not run")
			})
			auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestGetUser_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.GetUser(req.Context())
	assert.False(t, ok)
}
