package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/ratelimit"
	"github.com/videotube/backend/internal/testsupport"
	"github.com/videotube/backend/internal/usecase"
)

func writeStatus(w http.ResponseWriter, _ *http.Request, err error) {
	http.Error(w, err.Error(), apperr.As(err).Status())
}

func jwtConfig(secret string) *config.JWTConfig {
	return &config.JWTConfig{
		Secret:        secret,
		RefreshSecret: "refresh-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	}
}

func TestAuthenticate(t *testing.T) {
	store := testsupport.NewStore()
	user := store.SeedUser("alice", "pw")
	tokens := usecase.NewTokenManager(jwtConfig("access-secret"))
	auth := NewAuthMiddleware(usecase.NewAuthUsecase(store.Users(), tokens), writeStatus)

	pair, err := tokens.NewPair(user.ID)
	require.NoError(t, err)
	foreign, err := usecase.NewTokenManager(jwtConfig("other-secret")).NewPair(user.ID)
	require.NoError(t, err)

	var seen string
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := GetUser(r.Context()); ok {
			seen = u.Username
		}
	}))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"foreign secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign.AccessToken) }, http.StatusUnauthorized},
		{"malformed header", func(r *http.Request) { r.Header.Set("Authorization", pair.AccessToken) }, http.StatusUnauthorized},
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+pair.AccessToken) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: pair.AccessToken}) }, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tc.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "alice", seen)
			} else {
				assert.Empty(t, seen)
			}
		})
	}
}

func TestRequireUser(t *testing.T) {
	_, err := RequireUser(context.Background())
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	_, ok := GetUser(WithUser(context.Background(), nil))
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewMemoryLimiter(1, time.Minute)
	handler := RateLimit(limiter, writeStatus)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1000").Code)
	rec := do("10.0.0.1:2000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1000").Code)
}
