// Package logger builds structured slog loggers with environment-specific
// defaults and provides typed attribute helpers for the identifiers that
// recur throughout the codebase.
//
//	log := logger.New(
//		logger.WithProduction("glowdesk"),
//	)
//
//	log.Warn("token reuse detected",
//		logger.Component("refresh"),
//		logger.UserID(userID),
//		logger.SessionID(sessionID),
//	)
//
// Development configuration writes human-readable text at debug level;
// production writes JSON at info level. Attribute helpers return an empty
// Attr for zero values, so they can be passed unconditionally.
package logger
