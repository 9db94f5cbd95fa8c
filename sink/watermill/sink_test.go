package watermill

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	wm "github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/fincue/sessionkit"
)

func TestEmitPublishesEvent(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, wm.NopLogger{})
	defer pubsub.Close()

	messages, err := pubsub.Subscribe(context.Background(), "sessionkit.events")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sink := New(pubsub)

	event := sessionkit.SessionEvent{
		ID:        "evt-1",
		Timestamp: time.Now().UTC(),
		EventType: sessionkit.EventSignedIn,
		Email:     "user@example.com",
		Success:   true,
	}

	sink.Emit(context.Background(), event)

	select {
	case msg := <-messages:
		if msg.UUID != "evt-1" {
			t.Fatalf("message uuid = %q, want evt-1", msg.UUID)
		}

		var got sessionkit.SessionEvent
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if got.EventType != sessionkit.EventSignedIn || got.Email != "user@example.com" {
			t.Fatalf("event = %+v", got)
		}

		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}
}

func TestEmitCustomTopic(t *testing.T) {
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, wm.NopLogger{})
	defer pubsub.Close()

	messages, err := pubsub.Subscribe(context.Background(), "finance.sessions")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sink := New(pubsub, WithTopic("finance.sessions"))
	sink.Emit(context.Background(), sessionkit.SessionEvent{ID: "evt-2", EventType: sessionkit.EventSignedOut})

	select {
	case msg := <-messages:
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("no message on custom topic")
	}
}
