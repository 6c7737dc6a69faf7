package logger

import (
	"log/slog"
	"time"
)

// Attribute helpers return an empty Attr for zero values so call sites never
// need nil or emptiness checks.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component names the subsystem emitting the record.
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}

// UserID tags a record with the acting principal.
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// SessionID tags a record with a refresh session id.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// Duration creates an attribute for an elapsed duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}
