package utils

// ContextKey namespaces the request-context values set by the JWT
// middleware (userId, username, role, expiresAt).
type ContextKey string
