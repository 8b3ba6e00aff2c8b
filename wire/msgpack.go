/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package wire

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

type msgpackEnvelope struct {
	Event string             `msgpack:"event"`
	Data  msgpack.RawMessage `msgpack:"data,omitempty"`
}

// Msgpack frames envelopes as websocket binary messages.
type Msgpack struct{}

func (Msgpack) Name() string { return "msgpack" }

func (Msgpack) MessageType() int { return websocket.BinaryMessage }

func (Msgpack) Marshal(event string, data any) ([]byte, error) {
	env := msgpackEnvelope{Event: event}

	switch d := data.(type) {
	case nil:
	case Raw:
		env.Data = msgpack.RawMessage(d)
	default:
		b, err := msgpack.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encoding %s data: %w", event, err)
		}
		env.Data = b
	}

	return msgpack.Marshal(&env)
}

func (Msgpack) Unmarshal(b []byte) (Frame, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(b, &env); err != nil {
		return Frame{}, err
	}
	if env.Event == "" {
		return Frame{}, ErrNoEvent
	}

	return Frame{Event: env.Event, Data: Raw(env.Data)}, nil
}

func (Msgpack) Decode(data Raw, v any) error {
	if len(data) == 0 {
		return ErrNoData
	}

	return msgpack.Unmarshal(data, v)
}
