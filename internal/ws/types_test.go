package ws

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewErrorPayloadIsJSON(t *testing.T) {
	msg := NewError(errors.New(`bad "move"`))
	if msg.Type != MessageTypeError {
		t.Fatalf("type = %q", msg.Type)
	}
	var p ErrorPayload
	if err := json.Unmarshal(msg.Payload, &p); err != nil {
		t.Fatalf("payload %s: %v", msg.Payload, err)
	}
	if p.Error != `bad "move"` {
		t.Fatalf("error = %q", p.Error)
	}
}
