/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package wire defines the named events exchanged with game clients and the
// codecs that frame them on a websocket.
//
// Every frame is an envelope of the form {event, data}. The data of a move is
// never decoded by the server: it travels as Raw bytes in the codec's own
// encoding and is copied into the outbound envelope unchanged.
package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Client → server.
const (
	EventJoin           = "request_to_play"
	EventMoveFromClient = "playerMoveFromClient"
)

// Server → client.
const (
	EventRoomFull           = "RoomFull"
	EventWaitingForOpponent = "WaitingForOpponent"
	EventOpponentFound      = "OpponentFound"
	EventMoveFromServer     = "playerMoveFromServer"
	EventOpponentLeft       = "opponentLeftMatch"
)

// Role is the mark a player places on the board.
type Role string

const (
	RoleCircle Role = "circle"
	RoleCross  Role = "cross"
)

var (
	ErrUnknownCodec = errors.New("unknown codec")
	ErrNoEvent      = errors.New("frame has no event name")
	ErrNoData       = errors.New("frame has no data")
)

// JoinRequest is the data of a request_to_play event.
type JoinRequest struct {
	RoomID     string `json:"roomId" msgpack:"roomId"`
	PlayerName string `json:"playerName" msgpack:"playerName"`
}

// OpponentFound is the data of an OpponentFound event.
type OpponentFound struct {
	OpponentName string `json:"opponentName" msgpack:"opponentName"`
	PlayingAs    Role   `json:"playingAs" msgpack:"playingAs"`
}

// Raw is encoded event data carried through without interpretation.
type Raw []byte

// Frame is a decoded envelope whose data is still encoded.
type Frame struct {
	Event string
	Data  Raw
}

// Codec turns envelopes into websocket messages and back.
type Codec interface {
	Name() string

	// MessageType is the websocket message type frames are written with.
	MessageType() int

	// Marshal encodes an envelope. Raw data is embedded as-is, nil data is
	// omitted and anything else is encoded with the codec.
	Marshal(event string, data any) ([]byte, error)

	Unmarshal(b []byte) (Frame, error)

	// Decode decodes the data of a frame into v.
	Decode(data Raw, v any) error
}

// Codecs lists the names accepted by Lookup.
var Codecs = []string{"json", "msgpack"}

func Lookup(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON{}, nil
	case "msgpack":
		return Msgpack{}, nil
	default:
		return nil, fmt.Errorf("%w %q (must be one of %s)", ErrUnknownCodec, name, strings.Join(Codecs, ", "))
	}
}
