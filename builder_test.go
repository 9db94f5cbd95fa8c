package sessionkit

import (
	"testing"
	"time"
)

func TestBuildRequiresAuthAPI(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error without an auth api")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.API.RequestTimeout = 0

	_, err := New().WithConfig(cfg).WithAuthAPI(&mockAPI{}).Build()
	if err == nil {
		t.Fatal("expected error for invalid config")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	b := New().WithAuthAPI(&mockAPI{})

	client, err := b.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer client.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second Build")
	}
}

func TestBuildDefaults(t *testing.T) {
	client, err := New().WithAuthAPI(&mockAPI{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	awaitReady(t, client)

	// Default memory storage starts empty.
	if client.IsAuthenticated() {
		t.Fatal("expected unauthenticated state with default storage")
	}
	// Metrics default off.
	if s := client.MetricsSnapshot(); len(s.Counters) != 0 {
		t.Fatalf("metrics enabled by default: %+v", s)
	}
}

func TestWithEventSinkEnablesEvents(t *testing.T) {
	sink := NewChannelSink(4)
	client, err := New().WithAuthAPI(&mockAPI{}).WithEventSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	awaitReady(t, client)

	select {
	case event := <-sink.Events():
		if event.EventType != EventHydrated {
			t.Fatalf("first event = %q, want hydrated", event.EventType)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("hydration event never emitted")
	}
}

func TestWithConfigOverrides(t *testing.T) {
	cfg := defaultConfig()
	cfg.API.RequestTimeout = 2 * time.Second

	client, err := New().WithConfig(cfg).WithAuthAPI(&mockAPI{}).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer client.Close()

	if got := client.config.API.RequestTimeout; got != 2*time.Second {
		t.Fatalf("request timeout = %s, want 2s", got)
	}
}
