// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, health-check handlers and structured logging via slog.
//
// Construction goes through New or NewFromConfig with functional options.
// Run blocks until the context is cancelled or an interrupt/TERM signal
// arrives, then shuts the server down within the configured deadline.
// Startup errors are wrapped with ErrStart and shutdown errors with
// ErrShutdown so callers can inspect them with errors.Is.
//
// Usage:
//
//	r := chi.NewRouter()
//	r.Get("/health", httpserver.HealthCheckHandler(ctx, log))
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithShutdownTimeout(10*time.Second),
//		httpserver.WithLogger(log),
//	)
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
