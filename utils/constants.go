package utils

// AvailabilityCachePrefix prefixes availability cache keys: availability:<providerId>:<YYYY-MM-DD>.
const AvailabilityCachePrefix = "availability:"

// AvailabilityGenPrefix prefixes the write generation counters kept beside each availability key.
const AvailabilityGenPrefix = "availability-gen:"

// Context keys set by the auth middleware.
const (
	CtxUserID    = "userID"
	CtxUserRole  = "role"
	CtxRequestID = "requestID"
)
