/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package lobby

import (
	"bytes"
	"fmt"

	"github.com/Seednode/tictactoe/wire"
)

// Relay forwards move payloads between the two connections of a paired room.
// Payloads are copied and sent as-is: no turn order, legality or schema
// checks happen here.
type Relay struct {
	room   string
	ends   [2]Conn
	closed bool
}

func newRelay(room string, slot1, slot2 Conn) *Relay {
	return &Relay{
		room: room,
		ends: [2]Conn{slot1, slot2},
	}
}

// SlotOf returns which end of the relay connID is, slot1 first.
func (r *Relay) SlotOf(connID string) Slot {
	switch connID {
	case r.ends[0].ID():
		return Slot1
	case r.ends[1].ID():
		return Slot2
	default:
		return NoSlot
	}
}

// Forward sends payload from one end to the other.
func (r *Relay) Forward(from Slot, payload wire.Raw) error {
	if r.closed {
		return fmt.Errorf("room %q: %w", r.room, ErrRelayClosed)
	}

	var to Conn
	switch from {
	case Slot1:
		to = r.ends[1]
	case Slot2:
		to = r.ends[0]
	default:
		return fmt.Errorf("room %q: forward from %s: %w", r.room, from, ErrInvalidSlot)
	}

	return to.Send(wire.EventMoveFromServer, wire.Raw(bytes.Clone(payload)))
}

// Close stops further forwarding. It is idempotent.
func (r *Relay) Close() {
	r.closed = true
}

func (r *Relay) Closed() bool {
	return r.closed
}
