package refresh

import "time"

// Status is the lifecycle state of a session record. The only transition is
// StatusActive to StatusRevoked; there is no path back.
type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Record is the cache-resident session record, keyed by session id. It exists
// in the cache iff its TTL has not elapsed; expiry is implicit revocation.
type Record struct {
	UserID string `json:"user_id"`
	Status Status `json:"status"`

	// Provenance metadata, forwarded for audit only. No lifecycle decision
	// reads these.
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Meta carries optional request provenance onto the session record.
type Meta struct {
	IP        string
	UserAgent string
}

// Credential is a freshly issued refresh token with its session binding.
type Credential struct {
	Token     string
	SessionID string
	ExpiresAt time.Time
}

// Rotation is the result of a successful token rotation.
type Rotation struct {
	UserID string
	Credential
}

// Cache key derivation. Both namespaces embed the raw id without truncation
// and cannot collide with each other.
func sessionKey(sessionID string) string {
	return "refresh-token:" + sessionID
}

func userKey(userID string) string {
	return "user:" + userID + ":refresh-tokens"
}
