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

	"github.com/google/uuid"

	"Vidtube/internal/api/middleware"
	"Vidtube/internal/api/routes"
	"Vidtube/internal/config"
	"Vidtube/internal/core/comments"
	"Vidtube/internal/core/playlists"
	"Vidtube/internal/core/reactions"
	"Vidtube/internal/core/subscriptions"
	"Vidtube/internal/core/targets"
	"Vidtube/internal/core/tweets"
	"Vidtube/internal/core/users"
	"Vidtube/internal/core/videos"
	"Vidtube/internal/db"
	"Vidtube/internal/metrics"
)

const (
	profileCacheSize = 10_000
	requestTimeout   = 30 * time.Second
	shutdownTimeout  = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := db.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	m := metrics.New()

	// Initialize services
	userService := users.NewService(store.Users(), users.NewProfileCache(profileCacheSize, cfg.ProfileCacheTTL), cfg.StoreTimeout, logger)
	videoService := videos.NewService(store.Videos(), userService, cfg.StoreTimeout, logger)

	// The resolver needs comment lookups and the comment service needs the
	// ledger, so the comment existence checks go straight to the repository.
	commentRepo := store.Comments()
	resolver := targets.NewResolver(
		videoService.Exists,
		commentRepo.Exists,
		store.Tweets().Exists,
		commentVideoLookup(commentRepo),
	)

	reactionService := reactions.NewService(store.Reactions(), store.Videos(), resolver, reactions.Options{
		Logger:       logger,
		Recorder:     m,
		StoreTimeout: cfg.StoreTimeout,
	})
	commentService := comments.NewService(commentRepo, store.Videos(), userService, reactionService, cfg.StoreTimeout, logger)
	tweetService := tweets.NewService(store.Tweets(), userService, reactionService, cfg.StoreTimeout, logger)
	playlistService := playlists.NewService(store.Playlists(), store.Videos(), userService, cfg.StoreTimeout, logger)
	subscriptionService := subscriptions.NewService(store.Subscriptions(), userService, m, cfg.StoreTimeout, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPM)
	defer rateLimiter.Close()

	router := routes.NewRouter(routes.Services{
		Users:         userService,
		Videos:        videoService,
		Comments:      commentService,
		Tweets:        tweetService,
		Playlists:     playlistService,
		Subscriptions: subscriptionService,
		Reactions:     reactionService,
		Resolver:      resolver,
	}, routes.Options{
		Auth:           middleware.NewJWTAuth(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
		RateLimiter:    rateLimiter,
		Metrics:        m,
		Health:         store.Ping,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: requestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("vidtube starting", "port", cfg.Port, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// commentVideoLookup adapts the comment repository to the resolver's
// comment-to-video check
func commentVideoLookup(repo comments.Repository) targets.CommentVideoFunc {
	return func(ctx context.Context, id uuid.UUID) (uuid.UUID, bool, error) {
		c, err := repo.GetByID(ctx, id)
		if errors.Is(err, comments.ErrCommentNotFound) {
			return uuid.Nil, false, nil
		}
		if err != nil {
			return uuid.Nil, false, err
		}
		return c.Video, true, nil
	}
}
