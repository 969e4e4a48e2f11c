// File: utils/constants.go
package utils

// Gin context keys set by the auth middleware.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextEmail  = "email"
	ContextLogger = "logger"
	ContextUser   = "user"
)

// SessionKeyPrefix is the prefix used for Redis availability session keys.
const SessionKeyPrefix = "availability:session:"
