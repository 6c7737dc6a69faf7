// Package refreshtransport delivers refresh tokens to browsers as HTTP
// cookies.
//
// The cookie value is the signed token itself, opaque to this package. Its
// Max-Age always equals the lifetime the session lifecycle manager computed
// for the credential, so the cookie and the cache-resident session record
// expire together.
//
//	cookie := refreshtransport.NewCookie(
//		refreshtransport.WithCookieName("glowdesk_refresh"),
//		refreshtransport.WithSecure(true),
//	)
//
//	cred, err := mgr.Issue(ctx, userID, meta)
//	cookie.Set(w, cred)
//
//	token, err := cookie.Read(r)
//
//	cookie.Clear(w) // logout
package refreshtransport
