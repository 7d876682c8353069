package redisstore

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// PingInterval is how often the connection monitor checks the
	// server once connected
	PingInterval time.Duration

	// ReconnectDelay is the fixed delay between reconnection attempts
	// after the monitor observes a failure
	ReconnectDelay time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		PingInterval:   15 * time.Second,
		ReconnectDelay: 5 * time.Second,
	}
}
