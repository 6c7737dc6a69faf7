// Package redis provides Redis client initialization and health checking for
// the cache facade backing session state and distributed locks.
//
// Connect validates the connection URL, dials with retry and exponential
// backoff, and verifies connectivity with a ping before returning the client.
// Both redis:// and rediss:// schemes are supported.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	facade := cache.NewRedis(client)
//
// Healthcheck returns a probe function suitable for readiness endpoints:
//
//	check := redis.Healthcheck(client)
//	if err := check(r.Context()); err != nil {
//		http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
//	}
package redis
