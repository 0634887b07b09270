package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/quillapi/backend/internal/client"
	"github.com/quillapi/backend/internal/config"
	"github.com/quillapi/backend/internal/db"
	"github.com/quillapi/backend/internal/handler"
	"github.com/quillapi/backend/internal/logger"
	"github.com/quillapi/backend/internal/service"
	"github.com/rs/zerolog"
)

const sessionGCInterval = 12 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Server.LogLevel, !cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure schema")
	}

	tokens, err := service.NewTokenManager(cfg.Auth)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid auth config")
	}

	authSvc, err := service.NewAuthService(pg, pg, tokens, cfg.Auth, cfg.IsProduction())
	if err != nil {
		log.Fatal().Err(err).Msg("invalid auth config")
	}

	media, err := client.NewMediaStore(ctx, cfg.Media)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init media store")
	}

	svcs := handler.Services{
		Auth:     authSvc,
		Users:    service.NewUserService(pg, pg),
		Blogs:    service.NewBlogService(pg, media),
		Comments: service.NewCommentService(pg, pg),
		Likes:    service.NewLikeService(pg, pg),
	}

	go gcRefreshSessions(ctx, pg, tokens.RefreshTTL(), log)

	router := handler.NewRouter(pg, svcs, cfg.Server, cfg.IsProduction(), log)
	server := &http.Server{
		Addr:    net.JoinHostPort("", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}

// gcRefreshSessions periodically drops session rows old enough that
// their tokens are cryptographically expired anyway.
func gcRefreshSessions(ctx context.Context, pg *db.Postgres, refreshTTL time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(sessionGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := pg.DeleteRefreshSessionsBefore(ctx, time.Now().Add(-refreshTTL))
			if err != nil {
				log.Error().Err(err).Msg("refresh session gc failed")
				continue
			}
			if removed > 0 {
				log.Info().Int64("removed", removed).Msg("stale refresh sessions removed")
			}
		}
	}
}
