package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/videotube/backend/internal/config"
	delivery "github.com/videotube/backend/internal/delivery/http"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/middleware"
	"github.com/videotube/backend/internal/ratelimit"
	"github.com/videotube/backend/internal/repository/postgres"
	"github.com/videotube/backend/internal/usecase"
	"github.com/videotube/backend/pkg/mediahost"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("videotube backend starting", "port", cfg.Server.Port)

	pool, err := postgres.Connect(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	media, err := mediahost.NewClient(ctx, mediahost.Config{
		Bucket:    cfg.Media.Bucket,
		Region:    cfg.Media.Region,
		Endpoint:  cfg.Media.Endpoint,
		AccessKey: cfg.Media.AccessKey,
		SecretKey: cfg.Media.SecretKey,
		PublicURL: cfg.Media.PublicURL,
		PathStyle: cfg.Media.PathStyle,
	})
	if err != nil {
		return err
	}

	limiter := ratelimit.New(ratelimit.Config{
		Limit:         cfg.RateLimit.LoginLimit,
		Window:        cfg.RateLimit.LoginWindow,
		RedisAddr:     cfg.RateLimit.RedisAddr,
		RedisPassword: cfg.RateLimit.RedisPassword,
		RedisTimeout:  cfg.RateLimit.RedisTimeout,
	})
	if closer, ok := limiter.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	videoRepo := postgres.NewVideoRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	likeRepo := postgres.NewLikeRepository(pool)
	tweetRepo := postgres.NewTweetRepository(pool)
	playlistRepo := postgres.NewPlaylistRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, usecase.NewTokenManager(&cfg.JWT))
	handler := delivery.NewHandler(delivery.Deps{
		Auth:          authUsecase,
		Users:         usecase.NewUserUsecase(userRepo, media),
		Videos:        usecase.NewVideoUsecase(videoRepo, commentRepo, likeRepo, playlistRepo, userRepo, media),
		Comments:      usecase.NewCommentUsecase(commentRepo, videoRepo, likeRepo),
		Likes:         usecase.NewLikeUsecase(likeRepo, videoRepo, commentRepo, tweetRepo),
		Tweets:        usecase.NewTweetUsecase(tweetRepo, likeRepo, userRepo),
		Playlists:     usecase.NewPlaylistUsecase(playlistRepo, videoRepo, userRepo),
		Subscriptions: usecase.NewSubscriptionUsecase(subscriptionRepo, userRepo),
		Dashboard:     usecase.NewDashboardUsecase(videoRepo),
		DB:            pool,
	}, cfg)
	authMiddleware := middleware.NewAuthMiddleware(authUsecase, delivery.WriteError)

	router := delivery.NewRouter(handler, authMiddleware, delivery.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		LoginLimiter:   limiter,
		TrustProxy:     cfg.Server.TrustProxy,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
