// Package refresh manages the lifecycle of refresh-token sessions: issuing,
// rotating, and revoking signed credentials whose only shared state is an
// expiring key-value cache.
//
// Every issued credential is bound to a random session id. The signed token
// (opaque to the cache) carries the user id and session id; the cache holds
// the authoritative session record under that id, with a TTL equal to the
// token's lifetime so expiry doubles as implicit revocation.
//
// # Rotation and Reuse Detection
//
// A refresh token rotates at most once. Rotate marks the presented token's
// record revoked before minting its replacement, so presenting the same token
// again finds a revoked record. A token whose record is missing or already
// revoked is treated as a replay signal: the manager eagerly revokes every
// session of that user before failing with ErrReusedOrRevoked, neutralizing
// the whole stolen-token family at once. That widening of the blast radius is
// intentional; it trades availability for safety.
//
// # Consistency Model
//
// The per-session record is the single source of truth. The per-user session
// index exists only to enumerate sessions for bulk revocation; it is advisory
// and its read-modify-write updates may race. A stale id in the index is
// harmless (revocation tolerates missing records) and a dropped id only
// weakens bulk revocation-by-index, never individual-session decisions. Do
// not add locking here to "fix" those races; the design accepts them.
//
// # Usage
//
//	signer, _ := jwt.New([]byte(secret))
//	mgr, err := refresh.NewManager(cacheFacade, signer,
//		refresh.WithTTL(30*24*time.Hour),
//	)
//
//	cred, err := mgr.Issue(ctx, userID, refresh.Meta{IP: ip, UserAgent: ua})
//
//	rot, err := mgr.Rotate(ctx, oldToken, refresh.Meta{IP: ip, UserAgent: ua})
//	switch {
//	case errors.Is(err, refresh.ErrInvalidOrExpired),
//		errors.Is(err, refresh.ErrReusedOrRevoked):
//		// terminate the session client-side and force re-authentication;
//		// never retry with the same token
//	}
//
// On logout, RevokeByToken invalidates the presented token's session even
// when the token's signature has already expired.
package refresh
