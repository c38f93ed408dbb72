// Package redis establishes the Redis connection backing the credential
// directory in production deployments.
//
// Connect parses a redis:// connection URL, retries with the configured
// interval until the server answers PING, and returns a ready client.
// Healthcheck produces the probe function wired into the server's health
// endpoint.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//	client, err := redis.Connect(ctx, cfg)
package redis
