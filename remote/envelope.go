package remote

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// maxFrameSize guards against corrupted frames or runaway listings.
const maxFrameSize = 1 << 24

// Envelope is the WebSocket wire format. Data stays raw so the reply can be
// strictly decoded into its concrete type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	if data == nil {
		return Envelope{Type: msgType}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// frameConn is the part of *websocket.Conn the envelope codec uses.
type frameConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
}

// ReadEnvelope reads one text or binary frame holding a JSON envelope.
func ReadEnvelope(conn frameConn) (Envelope, error) {
	kind, payload, err := conn.ReadMessage()
	if err != nil {
		return Envelope{}, fmt.Errorf("read frame: %w", err)
	}
	if kind != websocket.TextMessage && kind != websocket.BinaryMessage {
		return Envelope{}, fmt.Errorf("unexpected frame kind %d", kind)
	}
	if len(payload) == 0 || len(payload) > maxFrameSize {
		return Envelope{}, fmt.Errorf("invalid frame length: %d", len(payload))
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func WriteEnvelope(conn frameConn, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
