package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/domain"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/usecase"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth          *usecase.AuthUsecase
	Users         *usecase.UserUsecase
	Videos        *usecase.VideoUsecase
	Comments      *usecase.CommentUsecase
	Likes         *usecase.LikeUsecase
	Tweets        *usecase.TweetUsecase
	Playlists     *usecase.PlaylistUsecase
	Subscriptions *usecase.SubscriptionUsecase
	Dashboard     *usecase.DashboardUsecase
	DB            Pinger
}

type Handler struct {
	auth          *usecase.AuthUsecase
	users         *usecase.UserUsecase
	videos        *usecase.VideoUsecase
	comments      *usecase.CommentUsecase
	likes         *usecase.LikeUsecase
	tweets        *usecase.TweetUsecase
	playlists     *usecase.PlaylistUsecase
	subscriptions *usecase.SubscriptionUsecase
	dashboard     *usecase.DashboardUsecase
	db            Pinger

	cookies       config.CookieConfig
	uploadDir     string
	maxUploadSize int64
}

func NewHandler(deps Deps, cfg *config.Config) *Handler {
	return &Handler{
		auth:          deps.Auth,
		users:         deps.Users,
		videos:        deps.Videos,
		comments:      deps.Comments,
		likes:         deps.Likes,
		tweets:        deps.Tweets,
		playlists:     deps.Playlists,
		subscriptions: deps.Subscriptions,
		dashboard:     deps.Dashboard,
		db:            deps.DB,
		cookies:       cfg.Cookie,
		uploadDir:     cfg.Server.UploadDir,
		maxUploadSize: cfg.Server.MaxUploadSize,
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts an error-returning handler. Returned errors and panics are
// rendered through WriteError; nothing else turns a failure into a response.
func (h *Handler) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.FromContext(r.Context()).Error("handler panic", "panic", rec, "stack", string(debug.Stack()))
			WriteError(w, r, apperr.Internal("Something went wrong", fmt.Errorf("panic: %v", rec)))
		}()

		if err := fn(w, r); err != nil {
			WriteError(w, r, err)
		}
	}
}

// decodeJSON reads the request body into dst. An empty body leaves dst
// untouched.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.BadRequest("Invalid request body")
	}
	return nil
}

func pathID(r *http.Request, param, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperr.BadRequest("Invalid " + label + " id")
	}
	return id, nil
}

func pageRequest(r *http.Request) domain.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.PageRequest{Page: page, Limit: limit}.Normalize()
}

func (h *Handler) Healthcheck(w http.ResponseWriter, r *http.Request) error {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			return apperr.Internal("Database is unreachable", err)
		}
	}
	respond(w, http.StatusOK, map[string]string{"status": "OK"}, "Everything is O.K")
	return nil
}
