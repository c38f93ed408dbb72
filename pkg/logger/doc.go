// Package logger builds context-aware slog loggers for the admin panel
// services.
//
// New applies functional options over production-safe defaults (JSON, info
// level) and wraps the resulting handler in a decorator that injects
// request-scoped attributes from context on every log call:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.Environment, "utadmin"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	logger.SetAsDefault(log)
//
// Attribute helpers (logger.Error, logger.Email, logger.Component, ...) keep
// log keys consistent across packages.
package logger
