package protocol

import (
	"context"
	"testing"
	"time"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/core"
	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

func TestEventStream_Read(t *testing.T) {
	ctx := context.Background()
	framing := core.NewMessageFraming(0)

	t.Run("should deliver events in order", func(t *testing.T) {
		client, peer := socketPair(t)
		events := NewEventStream(client, framing)

		for _, eventType := range []string{"create", "start", "resume"} {
			if err := framing.WriteMessage(peer, map[string]interface{}{"type": eventType, "value": map[string]int{"aid": 0}}); err != nil {
				t.Fatalf("WriteMessage: %v", err)
			}
		}

		for _, want := range []string{"create", "start", "resume"} {
			event, err := events.Read(ctx)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if event.Type != want {
				t.Errorf("Got %q, want %q", event.Type, want)
			}
		}
	})

	t.Run("should stay usable after a cancelled wait", func(t *testing.T) {
		client, peer := socketPair(t)
		events := NewEventStream(client, framing)

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
		_, err := events.Read(waitCtx)
		cancel()
		if !models.IsCode(err, models.Timeout) {
			t.Fatalf("Expected Timeout, got %v", err)
		}
		if events.Err() != nil {
			t.Fatalf("Idle timeout must not poison the stream: %v", events.Err())
		}

		if err := framing.WriteMessage(peer, map[string]string{"type": "back"}); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
		event, err := events.Read(ctx)
		if err != nil {
			t.Fatalf("Read after timeout: %v", err)
		}
		if event.Type != models.EventBack {
			t.Errorf("Unexpected event %q", event.Type)
		}
	})

	t.Run("should keep a partial length prefix across a cancelled wait", func(t *testing.T) {
		client, peer := socketPair(t)
		events := NewEventStream(client, framing)

		frame, err := framing.EncodeMessage(map[string]string{"type": "click"})
		if err != nil {
			t.Fatalf("EncodeMessage: %v", err)
		}
		peer.Write(frame[:2])

		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
		_, err = events.Read(waitCtx)
		cancel()
		if !models.IsCode(err, models.Timeout) {
			t.Fatalf("Expected Timeout, got %v", err)
		}

		peer.Write(frame[2:])
		event, err := events.Read(ctx)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if event.Type != models.EventClick {
			t.Errorf("Unexpected event %q", event.Type)
		}
	})

	t.Run("should report a closed stream and stay failed", func(t *testing.T) {
		client, peer := socketPair(t)
		events := NewEventStream(client, framing)
		peer.Close()

		_, err := events.Read(ctx)
		if !models.IsCode(err, models.TransportError) {
			t.Fatalf("Expected TransportError, got %v", err)
		}
		_, err = events.Read(ctx)
		if !models.IsCode(err, models.SessionClosed) {
			t.Errorf("Expected SessionClosed on the next read, got %v", err)
		}
	})

	t.Run("should treat a truncated frame as a protocol error", func(t *testing.T) {
		client, peer := socketPair(t)
		events := NewEventStream(client, framing)
		peer.Write([]byte{0, 0, 0, 20, '{'})
		peer.Close()

		_, err := events.Read(ctx)
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
		if events.Err() == nil {
			t.Error("Expected the stream to be poisoned")
		}
	})

	t.Run("should reject events without a type but keep reading", func(t *testing.T) {
		client, peer := socketPair(t)
		events := NewEventStream(client, framing)
		framing.WriteMessage(peer, map[string]int{"value": 1})
		framing.WriteMessage(peer, []int{1, 2})
		framing.WriteMessage(peer, map[string]string{"type": "pause"})

		for i := 0; i < 2; i++ {
			if _, err := events.Read(ctx); !models.IsCode(err, models.ProtocolError) {
				t.Errorf("Frame %d: expected ProtocolError, got %v", i, err)
			}
		}
		event, err := events.Read(ctx)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if event.Type != models.EventPause {
			t.Errorf("Unexpected event %q", event.Type)
		}
	})
}
