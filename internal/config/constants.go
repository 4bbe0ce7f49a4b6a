package config

import "time"

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts
const (
	ServerRequestTimeout  = 60 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Upper bound for a single conversation turn
const TurnTimeout = 30 * time.Second

// Upper bound for one sweep run
const SweepTimeout = 30 * time.Second

// Long polling
const (
	PollingTimeoutSeconds = 30
	PollingWorkers        = 8
)

// Number of records shown by /ultimos
const LatestRecordsLimit = 10

// Length of generated invitation codes
const InviteCodeLength = 6

// Maximum webhook request body
const WebhookBodyLimit = 1 << 20
