// Package config provides type-safe environment variable loading with
// per-type caching using Go generics.
//
// The package loads .env files once on first use and parses environment
// variables into struct fields via the caarlos0/env library.
//
//	import "github.com/glowdesk/core/core/config"
//
//	type RedisConfig struct {
//		URL string `env:"REDIS_URL,required"`
//	}
//
//	var cfg RedisConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure, for startup wiring:
//	config.MustLoad(&cfg)
//
// Each configuration type is loaded only once per process; later Load calls
// for the same type return the cached value.
package config
