/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wire

import (
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

type jsonEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JSON frames envelopes as websocket text messages.
type JSON struct{}

func (JSON) Name() string { return "json" }

func (JSON) MessageType() int { return websocket.TextMessage }

func (JSON) Marshal(event string, data any) ([]byte, error) {
	env := jsonEnvelope{Event: event}

	switch d := data.(type) {
	case nil:
	case Raw:
		env.Data = json.RawMessage(d)
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encoding %s data: %w", event, err)
		}
		env.Data = b
	}

	return json.Marshal(env)
}

func (JSON) Unmarshal(b []byte) (Frame, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Frame{}, err
	}
	if env.Event == "" {
		return Frame{}, ErrNoEvent
	}

	return Frame{Event: env.Event, Data: Raw(env.Data)}, nil
}

func (JSON) Decode(data Raw, v any) error {
	if len(data) == 0 {
		return ErrNoData
	}

	return json.Unmarshal(data, v)
}
