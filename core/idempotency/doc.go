// Package idempotency guards side-effecting operations against duplicate
// execution across all process instances, using the shared cache facade.
//
// A Guard runs an operation at most once per key per retention window.
// Concurrent callers with the same key are serialized through the facade's
// distributed lock; once the operation has completed, repeat calls inside the
// window are rejected without running it again.
//
//	guard, err := idempotency.NewGuard(cacheFacade,
//		idempotency.WithRetention(time.Minute),
//	)
//
//	err = guard.Do(ctx, requestID, func(ctx context.Context) error {
//		return chargeCard(ctx, payment)
//	})
//	switch {
//	case errors.Is(err, idempotency.ErrDuplicate):
//		// already done within the window; treat as success or conflict
//	case errors.Is(err, idempotency.ErrInFlight):
//		// another handler is executing this key right now
//	}
//
// A failed operation leaves no completion marker, so the caller may retry
// with the same key once the in-flight lock is gone.
package idempotency
