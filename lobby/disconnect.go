package lobby

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Seednode/tictactoe/wire"
)

// Disconnect marks connID offline and tears down the room it was seated in.
// The remaining occupant of a paired room gets opponentLeftMatch. A room whose
// only occupant leaves is removed silently unless orphans are kept.
func (c *Coordinator) Disconnect(connID string) error {
	if err := c.users.MarkOffline(connID, c.now()); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}

	if c.retention <= 0 {
		defer c.users.Remove(connID)
	}

	room, slot := c.rooms.Find(connID)

	var peer *User
	switch slot {
	case NoSlot:
		return nil
	case Slot1:
		peer = room.Slot2
	case Slot2:
		peer = room.Slot1
	}

	if peer == nil {
		if c.keepOrphans {
			return nil
		}

		c.rooms.Delete(room.ID)
		c.log.Debug("orphan room removed", zap.String("room", room.ID))

		return nil
	}

	c.notify(peer, wire.EventOpponentLeft, nil)
	c.closeRoom(room)

	c.log.Info("match ended",
		zap.String("room", room.ID),
		zap.String("left", connID),
		zap.String("remaining", peer.ID),
	)

	return nil
}

// closeRoom ends both occupants' association with room and removes it.
func (c *Coordinator) closeRoom(room *Room) {
	if room.relay != nil {
		room.relay.Close()
	}

	for _, u := range []*User{room.Slot1, room.Slot2} {
		if u == nil {
			continue
		}

		if u.relay == room.relay {
			u.relay = nil
		}
		u.Playing = false
	}

	c.rooms.Delete(room.ID)
}
