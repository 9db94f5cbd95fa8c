package sessionkit

import (
	"errors"
	"time"
)

// Config defines a public type used by sessionkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Storage StorageConfig
	Events  EventsConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by sessionkit APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	// BaseURL of the Fincue backend, e.g. "https://api.fincue.app".
	// Required unless a custom AuthAPI is injected through the builder.
	BaseURL string

	// RequestTimeout bounds every outbound call, including token refresh.
	// A refresh that never resolves would keep its generation's pending
	// slot occupied; this timeout settles it as a failure.
	RequestTimeout time.Duration

	// RevokeTimeout bounds the fire-and-forget remote revoke issued by
	// SignOut. Revocation is advisory and never blocks local sign-out.
	RevokeTimeout time.Duration

	// UserAgent sent on every request.
	UserAgent string
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by sessionkit APIs.
//
// StorageConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type StorageConfig struct {
	// HydrateTimeout bounds the one-time token restore at startup. When it
	// fires the client settles as unauthenticated.
	HydrateTimeout time.Duration
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig defines a public type used by sessionkit APIs.
//
// EventsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking emitters when the buffer
	// is full. Dropped events are counted, see Client.EventsDropped.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by sessionkit APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			RequestTimeout: 30 * time.Second,
			RevokeTimeout:  5 * time.Second,
			UserAgent:      "sessionkit/1.0",
		},
		Storage: StorageConfig{
			HydrateTimeout: 10 * time.Second,
		},
		Events: EventsConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if c.API.RequestTimeout <= 0 {
		return errors.New("API RequestTimeout must be > 0")
	}
	if c.API.RevokeTimeout <= 0 {
		return errors.New("API RevokeTimeout must be > 0")
	}
	if c.Storage.HydrateTimeout <= 0 {
		return errors.New("Storage HydrateTimeout must be > 0")
	}
	if c.Events.Enabled && c.Events.BufferSize <= 0 {
		return errors.New("Events BufferSize must be > 0 when Events are enabled")
	}
	return nil
}
