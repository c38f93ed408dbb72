package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/utadmin/modules/adminauth"
	"github.com/dmitrymomot/utadmin/pkg/config"
	"github.com/dmitrymomot/utadmin/pkg/httpserver"
	"github.com/dmitrymomot/utadmin/pkg/logger"
	"github.com/dmitrymomot/utadmin/pkg/redis"
	"github.com/dmitrymomot/utadmin/pkg/totp"
)

type appConfig struct {
	// EncryptionKey is an optional base64-encoded 32-byte AES key. When set,
	// stored TOTP secrets are encrypted at rest in Redis.
	EncryptionKey string `env:"TOTP_ENCRYPTION_KEY"`
}

func main() {
	var (
		appCfg   appConfig
		httpCfg  httpserver.Config
		authCfg  adminauth.Config
		redisCfg redis.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&redisCfg)

	log := logger.New(logger.WithEnvironment(authCfg.Environment, "utadmin"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory, healthchecks, cleanup, err := newDirectory(ctx, appCfg, redisCfg, log)
	if err != nil {
		log.Error("failed to set up credential directory", logger.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	svc, err := adminauth.NewService(ctx, authCfg, directory, log)
	if err != nil {
		log.Error("failed to start auth service", logger.Error(err))
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, healthchecks...))
	r.Mount("/api", svc.Handle())

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("http server failed", logger.Error(err))
		os.Exit(1)
	}
}

// newDirectory picks the credential store for this deployment: Redis when
// REDIS_URL is set, otherwise an in-process map suitable for development.
func newDirectory(ctx context.Context, appCfg appConfig, redisCfg redis.Config, log *slog.Logger) (adminauth.Directory, []func(context.Context) error, func(), error) {
	if redisCfg.ConnectionURL == "" {
		log.Info("REDIS_URL not set, using in-memory credential directory")
		return adminauth.NewMemoryDirectory(), nil, func() {}, nil
	}

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() { _ = client.Close() }

	var opts []adminauth.RedisDirectoryOption
	if appCfg.EncryptionKey != "" {
		key, err := totp.ParseEncryptionKey(appCfg.EncryptionKey)
		if err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		opts = append(opts, adminauth.WithEncryptionKey(key))
		log.Info("at-rest encryption of stored secrets enabled")
	}

	log.Info("using redis credential directory")
	healthchecks := []func(context.Context) error{redis.Healthcheck(client)}
	return adminauth.NewRedisDirectory(client, opts...), healthchecks, cleanup, nil
}
