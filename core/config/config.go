package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// cache holds one parsed value per config type.
	cache sync.Map // reflect.Type -> any

	// dotenvOnce guards .env autoloading. A missing .env file is not an
	// error; real environments set variables directly.
	dotenvOnce sync.Once
)

// Load parses environment variables into cfg. The first call for a given
// type reads the environment; later calls return the cached value so every
// component sees identical configuration.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})

	t := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(t); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s from environment: %w", t, err)
	}

	cache.Store(t, *cfg)
	return nil
}

// MustLoad is Load that panics on failure. Use during startup wiring where a
// missing required variable should stop the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
