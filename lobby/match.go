package lobby

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Seednode/tictactoe/wire"
)

// Join seats connID in roomID. The first arrival takes slot1, the second
// slot2; a third gets RoomFull and nothing changes. Once both slots are taken
// slot1 plays circle, slot2 plays cross, and the room's relay is set up.
func (c *Coordinator) Join(connID, roomID, name string) error {
	u, err := c.users.Lookup(connID)
	if err != nil {
		return fmt.Errorf("join %q: %w", roomID, err)
	}

	u.Name = name

	room := c.rooms.GetOrCreate(roomID)

	switch {
	case room.Slot1 == nil:
		room.Slot1 = u
	case room.Slot2 == nil:
		room.Slot2 = u
	default:
		c.notify(u, wire.EventRoomFull, nil)

		return fmt.Errorf("join %q: %w", roomID, ErrRoomFull)
	}

	u.Playing = true

	if !room.Paired() {
		c.log.Info("waiting for opponent",
			zap.String("room", roomID),
			zap.String("player", name),
		)
		c.notify(u, wire.EventWaitingForOpponent, nil)

		return nil
	}

	c.pair(room)

	return nil
}

func (c *Coordinator) pair(room *Room) {
	circle, cross := room.Slot1, room.Slot2

	c.notify(circle, wire.EventOpponentFound, wire.OpponentFound{
		OpponentName: cross.Name,
		PlayingAs:    wire.RoleCircle,
	})
	c.notify(cross, wire.EventOpponentFound, wire.OpponentFound{
		OpponentName: circle.Name,
		PlayingAs:    wire.RoleCross,
	})

	room.relay = newRelay(room.ID, circle.conn, cross.conn)
	circle.relay = room.relay
	cross.relay = room.relay

	c.log.Info("match started",
		zap.String("room", room.ID),
		zap.String("circle", circle.Name),
		zap.String("cross", cross.Name),
	)
}

// Move forwards payload to the opponent of connID.
func (c *Coordinator) Move(connID string, payload wire.Raw) error {
	u, err := c.users.Lookup(connID)
	if err != nil {
		return fmt.Errorf("move: %w", err)
	}

	if u.relay == nil {
		return fmt.Errorf("move from %s: %w", connID, ErrNotPaired)
	}

	return u.relay.Forward(u.relay.SlotOf(connID), payload)
}
