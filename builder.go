package sessionkit

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/fincue/sessionkit/storage"
)

// Builder defines a public type used by sessionkit APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	api    AuthAPI
	store  storage.Storage
	logger hclog.Logger
	sink   EventSink

	built bool
}

// New returns a builder preloaded with default configuration.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder configuration wholesale.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithAuthAPI injects the remote auth backend. Required; the canonical
// implementation is httpapi.New.
//
// WithAuthAPI does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuthAPI(api AuthAPI) *Builder {
	b.api = api
	return b
}

// WithStorage injects the token persistence backend. Defaults to the
// in-memory store, which does not survive process restarts.
//
// WithStorage does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithStorage(s storage.Storage) *Builder {
	b.store = s
	return b
}

// WithLogger injects the structured logger. Defaults to a null logger.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(l hclog.Logger) *Builder {
	b.logger = l
	return b
}

// WithEventSink injects a sink for session lifecycle events and enables the
// event dispatcher.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	b.config.Events.Enabled = true
	return b
}

// WithMetricsEnabled toggles metric collection.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the request latency histogram.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, assembles the client, and starts the
// one-time hydration goroutine. A builder is single-use.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.api == nil {
		return nil, errors.New("auth api required")
	}

	store := b.store
	if store == nil {
		store = storage.NewMemory()
	}

	logger := b.logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	logger = logger.Named("sessionkit")

	client := &Client{
		config:  cfg,
		api:     b.api,
		store:   store,
		logger:  logger,
		metrics: NewMetrics(cfg.Metrics),
		events:  newEventDispatcher(cfg.Events, b.sink),
		loading: true,
		ready:   make(chan struct{}),
	}

	go client.hydrate()

	b.built = true

	return client, nil
}
