package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/videotube/backend/internal/apperr"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/ratelimit"
)

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LoginLimiter   ratelimit.Limiter
	// TrustProxy rewrites RemoteAddr from proxy headers before rate limiting.
	TrustProxy bool
}

func NewRouter(handler *Handler, authMiddleware *middleware.AuthMiddleware, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(logging.RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, apperr.NotFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, apperr.MethodNotAllowed("Method not allowed"))
	})

	limiter := cfg.LoginLimiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", handler.handle(handler.Healthcheck))

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", handler.handle(handler.Register))
			r.With(middleware.RateLimit(limiter, WriteError)).Post("/login", handler.handle(handler.Login))
			r.Post("/refresh-token", handler.handle(handler.RefreshToken))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Post("/logout", handler.handle(handler.Logout))
				r.Post("/change-password", handler.handle(handler.ChangePassword))
				r.Get("/current-user", handler.handle(handler.CurrentUser))
				r.Patch("/update-account", handler.handle(handler.UpdateAccount))
				r.Patch("/avatar", handler.handle(handler.UpdateAvatar))
				r.Patch("/cover-image", handler.handle(handler.UpdateCoverImage))
				r.Get("/c/{username}", handler.handle(handler.ChannelProfile))
				r.Get("/history", handler.handle(handler.WatchHistory))
			})
		})

		// Everything below requires a logged-in user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Route("/videos", func(r chi.Router) {
				r.Get("/", handler.handle(handler.ListVideos))
				r.Post("/", handler.handle(handler.PublishVideo))
				r.Get("/{videoId}", handler.handle(handler.GetVideo))
				r.Patch("/{videoId}", handler.handle(handler.UpdateVideo))
				r.Delete("/{videoId}", handler.handle(handler.DeleteVideo))
				r.Patch("/toggle/publish/{videoId}", handler.handle(handler.TogglePublish))
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/{videoId}", handler.handle(handler.ListComments))
				r.Post("/{videoId}", handler.handle(handler.AddComment))
				r.Patch("/c/{commentId}", handler.handle(handler.UpdateComment))
				r.Delete("/c/{commentId}", handler.handle(handler.DeleteComment))
			})

			r.Route("/likes", func(r chi.Router) {
				r.Post("/toggle/v/{videoId}", handler.handle(handler.ToggleVideoLike))
				r.Post("/toggle/c/{commentId}", handler.handle(handler.ToggleCommentLike))
				r.Post("/toggle/t/{tweetId}", handler.handle(handler.ToggleTweetLike))
				r.Get("/videos", handler.handle(handler.LikedVideos))
			})

			r.Route("/tweets", func(r chi.Router) {
				r.Post("/", handler.handle(handler.CreateTweet))
				r.Get("/user/{userId}", handler.handle(handler.UserTweets))
				r.Patch("/{tweetId}", handler.handle(handler.UpdateTweet))
				r.Delete("/{tweetId}", handler.handle(handler.DeleteTweet))
			})

			r.Route("/playlist", func(r chi.Router) {
				r.Post("/", handler.handle(handler.CreatePlaylist))
				r.Get("/user/{userId}", handler.handle(handler.UserPlaylists))
				r.Get("/{playlistId}", handler.handle(handler.GetPlaylist))
				r.Patch("/{playlistId}", handler.handle(handler.UpdatePlaylist))
				r.Delete("/{playlistId}", handler.handle(handler.DeletePlaylist))
				r.Patch("/add/{videoId}/{playlistId}", handler.handle(handler.AddVideoToPlaylist))
				r.Patch("/remove/{videoId}/{playlistId}", handler.handle(handler.RemoveVideoFromPlaylist))
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Post("/c/{channelId}", handler.handle(handler.ToggleSubscription))
				r.Get("/c/{channelId}", handler.handle(handler.ChannelSubscribers))
				r.Get("/u/{subscriberId}", handler.handle(handler.SubscribedChannels))
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", handler.handle(handler.ChannelStats))
				r.Get("/videos", handler.handle(handler.ChannelVideos))
			})
		})
	})

	return r
}
