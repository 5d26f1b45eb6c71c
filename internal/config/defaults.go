package config

import "time"

const (
	defaultAPIBaseURL    = "http://127.0.0.1:8000/api"
	defaultStatePath     = "parcelbee.db"
	defaultORSBaseURL    = "https://api.openrouteservice.org"
	defaultPollInterval  = 30 * time.Second
	defaultRedirectDelay = 1500 * time.Millisecond
)

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 1024,
}

var defaultLog = Log{
	Level:  "info",
	Format: "json",
}

// DefaultAPIBaseURL returns the default backend base URL.
func DefaultAPIBaseURL() string {
	return defaultAPIBaseURL
}

// DefaultPollInterval returns the default delivery list refresh interval.
func DefaultPollInterval() time.Duration {
	return defaultPollInterval
}

// DefaultRedirectDelay returns the default delay before the post-401 redirect.
func DefaultRedirectDelay() time.Duration {
	return defaultRedirectDelay
}

// DefaultLog returns the default logger settings.
func DefaultLog() Log {
	return defaultLog
}

// DefaultRateLimit returns the default console limiter settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
