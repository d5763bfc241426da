package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eventtogether/webapp/internal/core/service"
	"github.com/eventtogether/webapp/internal/infrastructure/config"
	"github.com/eventtogether/webapp/internal/infrastructure/sessions"
	"github.com/eventtogether/webapp/internal/infrastructure/upstream"
	"github.com/eventtogether/webapp/internal/web"
	"github.com/eventtogether/webapp/internal/web/middleware"
	"github.com/eventtogether/webapp/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := sessions.Connect(ctx, sessions.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	store := sessions.NewStore(rdb, cfg.Session.TTL)
	client := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, log)
	sessionSvc := service.NewSessionService(store, upstream.NewAccounts(client), cfg.Session.TTL, log)

	e, err := web.NewRouter(web.Deps{
		Client:   client,
		Store:    store,
		Flash:    store,
		Sessions: sessionSvc,
		Redis:    rdb,
		Cookie: middleware.SessionOptions{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.Session.Secure,
		},
		Log: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
