package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/ratelimit"
	"github.com/videotube/backend/internal/testsupport"
	"github.com/videotube/backend/internal/usecase"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testServer struct {
	store   *testsupport.Store
	media   *testsupport.MediaHost
	tokens  *usecase.TokenManager
	handler *Handler
	router  http.Handler
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{UploadDir: t.TempDir(), MaxUploadSize: 1 << 20},
		JWT: config.JWTConfig{
			Secret:        "access-secret",
			RefreshSecret: "refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Cookie: config.CookieConfig{Secure: true},
	}
}

func newTestServer(t *testing.T, limiter ratelimit.Limiter, db Pinger) *testServer {
	t.Helper()
	cfg := testConfig(t)
	store := testsupport.NewStore()
	media := testsupport.NewMediaHost()
	tokens := usecase.NewTokenManager(&cfg.JWT)

	users, videos, comments := store.Users(), store.Videos(), store.Comments()
	likes, tweets, playlists := store.Likes(), store.Tweets(), store.Playlists()
	auth := usecase.NewAuthUsecase(users, tokens)

	handler := NewHandler(Deps{
		Auth:          auth,
		Users:         usecase.NewUserUsecase(users, media),
		Videos:        usecase.NewVideoUsecase(videos, comments, likes, playlists, users, media),
		Comments:      usecase.NewCommentUsecase(comments, videos, likes),
		Likes:         usecase.NewLikeUsecase(likes, videos, comments, tweets),
		Tweets:        usecase.NewTweetUsecase(tweets, likes, users),
		Playlists:     usecase.NewPlaylistUsecase(playlists, videos, users),
		Subscriptions: usecase.NewSubscriptionUsecase(store.Subscriptions(), users),
		Dashboard:     usecase.NewDashboardUsecase(videos),
		DB:            db,
	}, cfg)
	router := NewRouter(handler, middleware.NewAuthMiddleware(auth, WriteError), RouterConfig{
		Logger:       logging.New(logging.Config{Writer: io.Discard}),
		LoginLimiter: limiter,
	})
	return &testServer{store: store, media: media, tokens: tokens, handler: handler, router: router}
}

func (s *testServer) token(t *testing.T, user *domain.User) string {
	t.Helper()
	pair, err := s.tokens.NewPair(user.ID)
	require.NoError(t, err)
	return pair.AccessToken
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func multipartRequest(t *testing.T, method, path string, fields, files map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for field, name := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("bytes of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

type testEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []string        `json:"errors"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data any) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, rec.Code, env.StatusCode)
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestHealthcheck(t *testing.T) {
	s := newTestServer(t, nil, fakePinger{})
	rec := s.doJSON(http.MethodGet, "/api/v1/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var data map[string]string
	env := decode(t, rec, &data)
	assert.True(t, env.Success)
	assert.Equal(t, "OK", data["status"])

	s = newTestServer(t, nil, fakePinger{err: errors.New("connection refused")})
	rec = s.doJSON(http.MethodGet, "/api/v1/healthcheck", "", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env = decode(t, rec, nil)
	assert.False(t, env.Success)
	assert.NotContains(t, env.Message, "connection refused")
}

func TestRouter_UnknownRoutesUseEnvelope(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := s.doJSON(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode(t, rec, nil).Success)

	rec = s.doJSON(http.MethodPut, "/api/v1/healthcheck", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, []string{}, decode(t, rec, nil).Errors)
}

func TestProtectedRoutes_RequireValidToken(t *testing.T) {
	s := newTestServer(t, nil, nil)
	user := s.store.SeedUser("alice", "pw")
	foreign, err := usecase.NewTokenManager(&config.JWTConfig{
		Secret: "another-secret", RefreshSecret: "x", AccessExpiry: time.Minute, RefreshExpiry: time.Hour,
	}).NewPair(user.ID)
	require.NoError(t, err)

	rec := s.doJSON(http.MethodGet, "/api/v1/users/current-user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized request", decode(t, rec, nil).Message)

	rec = s.doJSON(http.MethodGet, "/api/v1/videos", foreign.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid access token", decode(t, rec, nil).Message)

	rec = s.doJSON(http.MethodGet, "/api/v1/users/current-user", s.token(t, user), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	decode(t, rec, &got)
	assert.Equal(t, "alice", got["username"])
	assert.NotContains(t, got, "passwordHash")
}

func TestLoginRefreshLogout(t *testing.T) {
	s := newTestServer(t, nil, nil)
	s.store.SeedUser("alice", "pw")

	rec := s.doJSON(http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "alice", "password": "pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	var login loginResponse
	decode(t, rec, &login)
	assert.NotEmpty(t, login.AccessToken)
	cookieRefresh, ok := cookieValue(rec, refreshTokenCookie)
	require.True(t, ok)
	assert.Equal(t, login.RefreshToken, cookieRefresh)
	for _, c := range rec.Result().Cookies() {
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: login.RefreshToken})
	rec = s.do(req, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rotated domain.TokenPair
	decode(t, rec, &rotated)
	assert.NotEqual(t, login.RefreshToken, rotated.RefreshToken)

	rec = s.doJSON(http.MethodPost, "/api/v1/users/refresh-token", "", map[string]string{"refreshToken": login.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cleared, ok := cookieValue(rec, refreshTokenCookie)
	assert.True(t, ok)
	assert.Empty(t, cleared)

	rec = s.doJSON(http.MethodPost, "/api/v1/users/logout", rotated.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/users/refresh-token", "", map[string]string{"refreshToken": rotated.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemoryLimiter(1, time.Minute), nil)
	s.store.SeedUser("alice", "pw")
	body := map[string]string{"email": "alice@example.com", "password": "wrong"}

	rec := s.doJSON(http.MethodPost, "/api/v1/users/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/users/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLogin_RateLimitKeysOnPeerAddress(t *testing.T) {
	s := newTestServer(t, ratelimit.NewMemoryLimiter(1, time.Minute), nil)
	s.store.SeedUser("alice", "pw")

	login := func(forwardedFor string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
			strings.NewReader(`{"email":"alice@example.com","password":"wrong"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		return s.do(req, "")
	}

	assert.Equal(t, http.StatusUnauthorized, login("203.0.113.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, login("203.0.113.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, login("198.51.100.7").Code)
}

func TestRegisterAndChangePassword(t *testing.T) {
	s := newTestServer(t, nil, nil)
	fields := map[string]string{"fullName": "Bob B", "email": "Bob@Example.com", "username": "Bob", "password": "old-pw"}

	rec := s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields, nil), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields, map[string]string{"avatar": "me.png"}), "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var user domain.User
	decode(t, rec, &user)
	assert.Equal(t, "bob", user.Username)
	assert.True(t, strings.HasPrefix(user.Avatar, "https://media.test/avatars/"))

	rec = s.do(multipartRequest(t, http.MethodPost, "/api/v1/users/register", fields, map[string]string{"avatar": "me.png"}), "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	login := func(password string) int {
		return s.doJSON(http.MethodPost, "/api/v1/users/login", "", map[string]string{"username": "bob", "password": password}).Code
	}
	require.Equal(t, http.StatusOK, login("old-pw"))

	token := s.token(t, &user)
	rec = s.doJSON(http.MethodPost, "/api/v1/users/change-password", token, map[string]string{"oldPassword": "nope", "newPassword": "new-pw"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.doJSON(http.MethodPost, "/api/v1/users/change-password", token, map[string]string{"oldPassword": "old-pw", "newPassword": "new-pw"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, login("old-pw"))
	assert.Equal(t, http.StatusOK, login("new-pw"))
}

func TestPublishAndWatchVideo(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.store.SeedUser("owner", "pw")
	token := s.token(t, owner)

	req := multipartRequest(t, http.MethodPost, "/api/v1/videos",
		map[string]string{"title": "Intro", "description": "first", "duration": "12.5"},
		map[string]string{"videoFile": "intro.mp4", "thumbnail": "intro.png"})
	rec := s.do(req, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var video domain.Video
	decode(t, rec, &video)
	assert.Equal(t, 12.5, video.Duration)

	rec = s.doJSON(http.MethodGet, "/api/v1/videos/"+video.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail domain.VideoDetail
	decode(t, rec, &detail)
	assert.EqualValues(t, 1, detail.Views)

	rec = s.doJSON(http.MethodGet, "/api/v1/videos/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid video id", decode(t, rec, nil).Message)

	rec = s.doJSON(http.MethodGet, "/api/v1/videos?sortBy=rating", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.doJSON(http.MethodGet, "/api/v1/videos?page=1&limit=5", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.Page[domain.VideoWithOwner]
	decode(t, rec, &page)
	assert.Equal(t, 1, page.TotalDocs)
	assert.Equal(t, 5, page.Limit)
}

func TestPublishVideo_RejectsNonFiniteDuration(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.store.SeedUser("owner", "pw")
	token := s.token(t, owner)

	for _, duration := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		req := multipartRequest(t, http.MethodPost, "/api/v1/videos",
			map[string]string{"title": "Intro", "description": "first", "duration": duration},
			map[string]string{"videoFile": "intro.mp4", "thumbnail": "intro.png"})
		rec := s.do(req, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, duration)
		assert.Equal(t, "Invalid duration", decode(t, rec, nil).Message, duration)
	}

	rec := s.doJSON(http.MethodGet, "/api/v1/videos", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.Page[domain.VideoWithOwner]
	decode(t, rec, &page)
	assert.Zero(t, page.TotalDocs)
}

func TestListVideos_HugePageNumber(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.store.SeedUser("owner", "pw")
	s.store.SeedVideo(owner.ID, "clip", true)

	rec := s.doJSON(http.MethodGet, "/api/v1/videos?page=9223372036854775807&limit=100", s.token(t, owner), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page domain.Page[domain.VideoWithOwner]
	decode(t, rec, &page)
	assert.Empty(t, page.Docs)
	assert.Equal(t, 1, page.TotalDocs)
}

func TestWriteJSON_UnencodableBodyStillUsesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	respond(rec, http.StatusOK, map[string]float64{"duration": math.NaN()}, "ok")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec, nil)
	assert.False(t, env.Success)
	assert.Equal(t, "Something went wrong", env.Message)
}

func TestLikeToggle(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.store.SeedUser("owner", "pw")
	fan := s.store.SeedUser("fan", "pw")
	video := s.store.SeedVideo(owner.ID, "clip", true)
	token := s.token(t, fan)
	path := "/api/v1/likes/toggle/v/" + video.ID.String()

	var result map[string]bool
	rec := s.doJSON(http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &result)
	assert.True(t, result["liked"])

	rec = s.doJSON(http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &result)
	assert.False(t, result["liked"])

	rec = s.doJSON(http.MethodPost, "/api/v1/likes/toggle/t/"+video.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOwnershipIsEnforced(t *testing.T) {
	s := newTestServer(t, nil, nil)
	owner := s.store.SeedUser("owner", "pw")
	other := s.store.SeedUser("other", "pw")
	video := s.store.SeedVideo(owner.ID, "clip", true)
	comment := s.store.SeedComment(owner.ID, video.ID, "mine")
	tweet := s.store.SeedTweet(owner.ID, "hello")
	s.store.SeedLike(domain.LikeTarget{Kind: domain.LikeComment, ID: comment.ID}, owner.ID)
	s.store.SeedLike(domain.LikeTarget{Kind: domain.LikeComment, ID: comment.ID}, other.ID)

	ownerToken, otherToken := s.token(t, owner), s.token(t, other)

	rec := s.doJSON(http.MethodPost, "/api/v1/playlist", ownerToken, map[string]string{"name": "mix", "description": "best"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var playlist domain.Playlist
	decode(t, rec, &playlist)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPatch, "/api/v1/comments/c/" + comment.ID.String(), map[string]string{"content": "edited"}},
		{http.MethodPatch, "/api/v1/tweets/" + tweet.ID.String(), map[string]string{"content": "edited"}},
		{http.MethodPatch, "/api/v1/playlist/" + playlist.ID.String(), map[string]string{"name": "n", "description": "d"}},
		{http.MethodPatch, "/api/v1/playlist/add/" + video.ID.String() + "/" + playlist.ID.String(), nil},
		{http.MethodDelete, "/api/v1/comments/c/" + comment.ID.String(), nil},
		{http.MethodDelete, "/api/v1/tweets/" + tweet.ID.String(), nil},
		{http.MethodDelete, "/api/v1/playlist/" + playlist.ID.String(), nil},
		{http.MethodDelete, "/api/v1/videos/" + video.ID.String(), nil},
	}
	for _, tc := range tests {
		rec := s.doJSON(tc.method, tc.path, otherToken, tc.body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tc.method, tc.path)
	}
	for _, tc := range tests {
		rec := s.doJSON(tc.method, tc.path, ownerToken, tc.body)
		assert.Equal(t, http.StatusOK, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())
	}

	assert.Zero(t, s.store.LikeCount(domain.LikeTarget{Kind: domain.LikeComment, ID: comment.ID}))
}

func TestSubscriptionsAndDashboard(t *testing.T) {
	s := newTestServer(t, nil, nil)
	channel := s.store.SeedUser("channel", "pw")
	viewer := s.store.SeedUser("viewer", "pw")
	s.store.SeedVideo(channel.ID, "clip", false)

	rec := s.doJSON(http.MethodPost, "/api/v1/subscriptions/c/"+viewer.ID.String(), s.token(t, viewer), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.doJSON(http.MethodPost, "/api/v1/subscriptions/c/"+channel.ID.String(), s.token(t, viewer), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled map[string]bool
	decode(t, rec, &toggled)
	assert.True(t, toggled["subscribed"])

	rec = s.doJSON(http.MethodGet, "/api/v1/dashboard/stats", s.token(t, channel), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.ChannelStats
	decode(t, rec, &stats)
	assert.Equal(t, 1, stats.TotalVideos)
	assert.Equal(t, 1, stats.TotalSubscribers)

	rec = s.doJSON(http.MethodGet, "/api/v1/dashboard/videos", s.token(t, channel), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var videos []domain.ChannelVideo
	decode(t, rec, &videos)
	assert.Len(t, videos, 1)
}

func TestHandle_RecoversPanics(t *testing.T) {
	s := newTestServer(t, nil, nil)
	h := s.handler.handle(func(http.ResponseWriter, *http.Request) error {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "Something went wrong", env.Message)
}
