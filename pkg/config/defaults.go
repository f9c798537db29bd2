package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock lifetime for the check-then-insert section. Long enough
	// to cover a slow transaction, short enough that a crashed holder does
	// not wedge a room.
	DefaultRoomLockTTL = 10 * time.Second

	// Window applied when a search gives a range start without an end.
	DefaultDefaultSearchRange = 1 * time.Hour

	DefaultDefaultPageSize = 10
	DefaultMaxPageSize     = 100

	DefaultBookingEventTopic = "roomly.bookings"
)
