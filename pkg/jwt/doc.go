// Package jwt signs and verifies the refresh tokens issued by the session
// lifecycle manager, using HMAC-SHA256 via github.com/golang-jwt/jwt/v5.
//
// A token carries the standard sub/exp/iat claims plus a custom "sid" claim
// holding the session id that locates the token's cache-resident session
// record. The subject and session id round-trip unchanged through sign and
// verify; nothing else about the token is interpreted by this package.
//
// # Usage
//
//	svc, err := jwt.New([]byte(cfg.SigningSecret))
//	if err != nil {
//		log.Fatal(err) // a missing secret is a startup failure, not a request failure
//	}
//
//	token, err := svc.Sign("user-123", sessionID, time.Now().Add(30*24*time.Hour))
//
//	userID, sessionID, err := svc.Verify(token)
//	if errors.Is(err, jwt.ErrExpiredToken) {
//		// force re-authentication
//	}
//
// Decode recovers claims without verifying the signature. It exists solely for
// best-effort cleanup paths such as logout with an already-expired token and
// must never be used to authenticate anything.
package jwt
