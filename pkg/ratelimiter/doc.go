// Package ratelimiter provides a fixed-window request limiter backed by the
// shared cache facade, so limits hold across every process instance of the
// service.
//
// Each key's requests are counted in window-stamped cache entries using the
// facade's atomic increment; concurrent requests never lose counts because
// counting is delegated to the store's native increment rather than a
// read-modify-write.
//
//	limiter, err := ratelimiter.New(cacheFacade, ratelimiter.Config{
//		Limit:  10,
//		Window: time.Minute,
//	})
//
//	res, err := limiter.Allow(ctx, clientIP)
//	if err != nil {
//		// cache unreachable: the caller decides whether to fail open
//	}
//	if !res.Allowed {
//		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
//		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
//		return
//	}
//
// Fixed windows admit up to 2x the limit across a window boundary in the
// worst case; that imprecision is accepted in exchange for a single atomic
// counter per key per window.
package ratelimiter
