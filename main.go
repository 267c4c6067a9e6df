package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"recreo/auth"
	"recreo/codelist"
	"recreo/config"
	"recreo/db"
	"recreo/logging"
	"recreo/memstore"
	"recreo/middleware"
	"recreo/mq"
	"recreo/ratelim"
	"recreo/rdx"
	"recreo/routes"
)

// storage opens the configured document store. The returned func releases
// it on shutdown.
func storage(ctx context.Context, cfg *config.Config) (routes.Deps, func(context.Context), error) {
	if cfg.Store.Driver == config.DriverMemory {
		logging.Warn().Msg("using in-memory store; data is lost on restart")
		return routes.Deps{
			Locations: memstore.NewLocations(),
			Events:    memstore.NewEvents(),
			Users:     memstore.NewUsers(),
			Sports:    memstore.NewSports(),
		}, func(context.Context) {}, nil
	}

	store, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		return routes.Deps{}, nil, err
	}
	closeFn := func(ctx context.Context) {
		if err := store.Disconnect(ctx); err != nil {
			logging.Err(err).Msg("mongo disconnect")
		}
	}
	return routes.Deps{
		Locations: store.Locations,
		Events:    store.Events,
		Users:     store.Users,
		Sports:    store.Sports,
	}, closeFn, nil
}

func emitter(ctx context.Context, cfg config.RedisConfig) (mq.Emitter, *redis.Client) {
	conn, err := rdx.Connect(ctx, cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("redis unavailable; domain events are only logged")
		return mq.LogEmitter{}, nil
	}
	if conn == nil {
		return mq.LogEmitter{}, nil
	}
	return mq.NewRedisEmitter(conn, cfg.Channel), conn
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()
	deps, closeStore, err := storage(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("open store")
	}
	em, conn := emitter(ctx, cfg.Redis)

	deps.Tokens = auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	deps.Emitter = em
	deps.Codelists = codelist.NewCache(cfg.Codelist.TTL)
	deps.Limiter = ratelim.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	// CORS → security headers → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler(middleware.SecurityHeaders(routes.NewRouter(deps)))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		if conn != nil {
			if err := conn.Close(); err != nil {
				logging.Err(err).Msg("redis close")
			}
		}
	})

	go func() {
		logging.Info().Str("addr", server.Addr).Str("store", cfg.Store.Driver).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("listen")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logging.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Err(err).Msg("graceful shutdown failed")
	}
	closeStore(shutdownCtx)
	logging.Info().Msg("server stopped")
}
