package constants

import "time"

const (
	StoreTimeout     = 5 * time.Second
	RequestTimeout   = 30 * time.Second
	SeedFetchTimeout = 10 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// RootKey names the persisted collection root in keyed backends.
	RootKey = "acd_tierlist_data"
)

const (
	SessionTTL        = 12 * time.Hour
	LoginBurst        = 5
	LoginRefillPeriod = 1 * time.Minute
)

const (
	StandingsConcurrency = 4
)
