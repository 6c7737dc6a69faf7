// Package cache provides a narrow facade over an expiring key-value store plus a
// distributed mutual-exclusion primitive, shared by every process instance of the
// application.
//
// The facade is deliberately minimal: get/set/delete, an atomic counter, TTL
// introspection, and WithLock. Nothing else about the underlying store may be
// assumed by callers; any implementation that honors the TTL-expiry-as-deletion,
// atomic-increment, and compare-and-delete contracts is interchangeable.
//
// # Implementations
//
// Two implementations are provided:
//
//   - Redis: production implementation backed by go-redis. Conditional writes use
//     SET NX, counters use native INCR, and lock release runs as a server-side Lua
//     script so the ownership check and the delete are a single atomic step.
//   - Memory: mutex-guarded in-process map with lazy expiry, for tests and
//     single-process development. It honors the same contracts.
//
// # Basic Usage
//
//	import "github.com/glowdesk/core/core/cache"
//
//	c := cache.NewRedis(redisClient)
//
//	ok, err := c.Set(ctx, "greeting", "hello", cache.WithTTL(time.Minute))
//
//	var greeting string
//	found, err := c.Get(ctx, "greeting", &greeting)
//
// # Distributed Locking
//
// WithLock serializes a critical section across all processes sharing the store:
//
//	err := c.WithLock(ctx, "appointments:slot:42", 10*time.Second, func(ctx context.Context) error {
//		// at most one cooperating holder runs here at a time
//		return bookSlot(ctx)
//	})
//	if errors.Is(err, cache.ErrLockNotAcquired) {
//		// another holder owns the lock; retry or fail the request
//	}
//
// Acquisition is fail-fast: contention is reported as ErrLockNotAcquired, never
// waited out. The lock TTL bounds how long an abandoned lock blocks other holders;
// if the critical section outlives the TTL a second holder may acquire the lock
// and run concurrently, so size the TTL against the worst-case section duration.
// The lock is released on every exit path, but only if the ownership token still
// matches what this call wrote: a slow holder whose lock already expired and was
// re-acquired cannot delete the new holder's lock.
//
// # Error Handling
//
// Absence is not an error: Get reports it through its boolean, TTL through its
// boolean, Delete is idempotent. Store connectivity failures are wrapped in
// ErrTransport and surfaced unchanged; the facade never retries internally.
package cache
