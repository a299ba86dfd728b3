package models

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidStatus reports whether s is one of the closed booking statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

const (
	// WorkerQueueSize is the in-memory export queue capacity.
	WorkerQueueSize = 128

	// DefaultTokenTTLHours is used when auth.token_ttl_hours is unset.
	DefaultTokenTTLHours = 24

	// AuthRateLimitRPS / AuthRateLimitBurst throttle the auth endpoints per IP.
	AuthRateLimitRPS   = 5
	AuthRateLimitBurst = 10
)
