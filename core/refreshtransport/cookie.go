package refreshtransport

import (
	"errors"
	"net/http"
	"time"

	"github.com/glowdesk/core/core/refresh"
)

// ErrNoToken is returned by Read when the request carries no refresh cookie.
var ErrNoToken = errors.New("refreshtransport: no refresh token cookie")

// defaultCookieName is used when no name override is given.
const defaultCookieName = "refresh_token"

// Cookie reads and writes the refresh-token cookie. Cookies are always
// HttpOnly with SameSite=Lax; everything else is configurable.
type Cookie struct {
	name   string
	path   string
	domain string
	secure bool
}

// CookieOption configures the transport.
type CookieOption func(*Cookie)

// WithCookieName overrides the cookie name.
func WithCookieName(name string) CookieOption {
	return func(c *Cookie) {
		if name != "" {
			c.name = name
		}
	}
}

// WithPath sets the cookie path. Defaults to "/".
func WithPath(path string) CookieOption {
	return func(c *Cookie) {
		if path != "" {
			c.path = path
		}
	}
}

// WithDomain sets the cookie domain. Empty means host-only.
func WithDomain(domain string) CookieOption {
	return func(c *Cookie) {
		c.domain = domain
	}
}

// WithSecure marks the cookie Secure. Leave false only for local development
// over plain HTTP.
func WithSecure(secure bool) CookieOption {
	return func(c *Cookie) {
		c.secure = secure
	}
}

// NewCookie creates a cookie transport.
func NewCookie(opts ...CookieOption) *Cookie {
	c := &Cookie{
		name: defaultCookieName,
		path: "/",
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Set writes the credential to the response. The cookie lives exactly as
// long as the credential does.
func (c *Cookie) Set(w http.ResponseWriter, cred refresh.Credential) {
	maxAge := int(time.Until(cred.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    cred.Token,
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   maxAge,
		Expires:  cred.ExpiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the refresh token from the request.
func (c *Cookie) Read(r *http.Request) (string, error) {
	ck, err := r.Cookie(c.name)
	if err != nil || ck.Value == "" {
		return "", ErrNoToken
	}
	return ck.Value, nil
}

// Clear expires the cookie immediately. Use on logout alongside
// Manager.RevokeByToken.
func (c *Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
