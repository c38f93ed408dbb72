// Package config loads typed configuration structs from environment
// variables, with each unique struct type parsed exactly once per process.
//
// Values come from the process environment, optionally seeded from a .env
// file via godotenv on first use. Struct fields are mapped with env tags as
// understood by github.com/caarlos0/env:
//
//	type AuthConfig struct {
//	    SuperAdminEmail  string `env:"SUPER_ADMIN_EMAIL,required"`
//	    SuperAdminSecret string `env:"TOTP_SECRET"`
//	    Environment      string `env:"APP_ENV" envDefault:"development"`
//	}
//
//	var cfg AuthConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// Subsequent Load calls for the same type return the cached copy, so every
// component observes identical configuration regardless of load order.
// MustLoad panics on failure and is meant for configuration the process
// cannot start without.
//
// Sentinel errors (ErrParsingConfig, ErrConfigNotLoaded, ErrNilPointer) can
// be compared with errors.Is.
package config
