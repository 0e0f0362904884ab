package core

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/jowharshamshiri/GoTermuxGUI/pkg/models"
)

func frameOf(body string) []byte {
	frame := make([]byte, LengthPrefixSize+len(body))
	binary.BigEndian.PutUint32(frame, uint32(len(body)))
	copy(frame[LengthPrefixSize:], body)
	return frame
}

func TestMessageFraming_EncodeMessage(t *testing.T) {
	framing := NewMessageFraming(0)

	t.Run("should prefix the body with its big-endian length", func(t *testing.T) {
		request := models.NewRequest("ping", nil)

		encoded, err := framing.EncodeMessage(request)
		if err != nil {
			t.Fatalf("Failed to encode request: %v", err)
		}

		body := `{"method":"ping","params":{}}`
		if !bytes.Equal(encoded, frameOf(body)) {
			t.Errorf("Unexpected frame: %q", encoded)
		}
	})

	t.Run("should reject messages over the cap", func(t *testing.T) {
		capped := NewMessageFraming(16)
		request := models.NewRequest("setText", map[string]interface{}{"text": strings.Repeat("x", 64)})

		_, err := capped.EncodeMessage(request)
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
	})

	t.Run("should report unmarshalable values", func(t *testing.T) {
		_, err := framing.EncodeMessage(map[string]interface{}{"ch": make(chan int)})
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
	})
}

func TestMessageFraming_RoundTrip(t *testing.T) {
	framing := NewMessageFraming(0)

	values := []interface{}{
		map[string]interface{}{"method": "createButton", "params": map[string]interface{}{"aid": float64(3), "text": "héllo"}},
		[]interface{}{float64(1), float64(2)},
		"plain string",
		float64(42),
		true,
		nil,
		map[string]interface{}{},
	}

	for _, value := range values {
		var stream bytes.Buffer
		if err := framing.WriteMessage(&stream, value); err != nil {
			t.Fatalf("WriteMessage(%v): %v", value, err)
		}

		raw, err := framing.ReadMessage(&stream)
		if err != nil {
			t.Fatalf("ReadMessage(%v): %v", value, err)
		}
		var decoded interface{}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if !reflect.DeepEqual(decoded, value) {
			t.Errorf("Round trip mismatch: got %#v, want %#v", decoded, value)
		}
		if stream.Len() != 0 {
			t.Errorf("Expected the frame to be consumed whole, %d bytes left", stream.Len())
		}
	}
}

func TestMessageFraming_ReadMessage(t *testing.T) {
	framing := NewMessageFraming(0)

	t.Run("should read exactly one frame", func(t *testing.T) {
		stream := bytes.NewReader(append(frameOf(`{"ok":true}`), frameOf(`[1,2]`)...))

		first, err := framing.ReadMessage(stream)
		if err != nil {
			t.Fatalf("First read failed: %v", err)
		}
		if string(first) != `{"ok":true}` {
			t.Errorf("Unexpected first frame: %s", first)
		}

		second, err := framing.ReadMessage(stream)
		if err != nil {
			t.Fatalf("Second read failed: %v", err)
		}
		if string(second) != `[1,2]` {
			t.Errorf("Unexpected second frame: %s", second)
		}
	})

	t.Run("should fail a truncated body with a short read", func(t *testing.T) {
		frame := frameOf(`{"text":"hello world"}`)
		for k := LengthPrefixSize; k < len(frame); k++ {
			_, err := framing.ReadMessage(bytes.NewReader(frame[:k]))
			if !models.IsCode(err, models.ProtocolError) {
				t.Fatalf("Cut at %d: expected ProtocolError, got %v", k, err)
			}
			if !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("Cut at %d: expected io.ErrUnexpectedEOF in chain, got %v", k, err)
			}
		}
	})

	t.Run("should fail a truncated length prefix", func(t *testing.T) {
		_, err := framing.ReadMessage(bytes.NewReader([]byte{0, 0}))
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
	})

	t.Run("should report a clean close as transport EOF", func(t *testing.T) {
		_, err := framing.ReadMessage(bytes.NewReader(nil))
		if !models.IsCode(err, models.TransportError) {
			t.Errorf("Expected TransportError, got %v", err)
		}
		if !errors.Is(err, io.EOF) {
			t.Errorf("Expected io.EOF in chain, got %v", err)
		}
	})

	t.Run("should reject a body that is not JSON", func(t *testing.T) {
		_, err := framing.ReadMessage(bytes.NewReader(frameOf(`{nope`)))
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
	})

	t.Run("should reject an empty body", func(t *testing.T) {
		_, err := framing.ReadMessage(bytes.NewReader(frameOf("")))
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
	})

	t.Run("should enforce the cap before allocating", func(t *testing.T) {
		capped := NewMessageFraming(8)
		prefix := []byte{0xff, 0xff, 0xff, 0xff}
		_, err := capped.ReadMessage(bytes.NewReader(prefix))
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
	})
}

func TestMessageFraming_DecodeMessage(t *testing.T) {
	framing := NewMessageFraming(0)

	t.Run("should return the remaining bytes", func(t *testing.T) {
		buffer := append(frameOf(`1`), 0xAA, 0xBB)

		message, rest, err := framing.DecodeMessage(buffer)
		if err != nil {
			t.Fatalf("DecodeMessage: %v", err)
		}
		if string(message) != "1" {
			t.Errorf("Unexpected message: %s", message)
		}
		if !bytes.Equal(rest, []byte{0xAA, 0xBB}) {
			t.Errorf("Unexpected rest: %v", rest)
		}
	})

	t.Run("should leave an incomplete buffer untouched", func(t *testing.T) {
		buffer := frameOf(`"abc"`)[:6]

		_, rest, err := framing.DecodeMessage(buffer)
		if !models.IsCode(err, models.ProtocolError) {
			t.Errorf("Expected ProtocolError, got %v", err)
		}
		if !bytes.Equal(rest, buffer) {
			t.Errorf("Buffer was modified")
		}
	})
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}

func TestMessageFraming_WriteFrame(t *testing.T) {
	framing := NewMessageFraming(0)

	t.Run("should treat a short write as a transport error", func(t *testing.T) {
		err := framing.WriteFrame(shortWriter{}, frameOf(`{}`))
		if !models.IsCode(err, models.TransportError) {
			t.Errorf("Expected TransportError, got %v", err)
		}
	})
}
