/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package lobby

import (
	"fmt"
	"time"
)

// Slot is one of the two occupancy positions in a room.
type Slot int

const (
	NoSlot Slot = iota
	Slot1
	Slot2
)

func (s Slot) String() string {
	switch s {
	case Slot1:
		return "slot1"
	case Slot2:
		return "slot2"
	default:
		return "none"
	}
}

// Room is a two-seat rendezvous point keyed by a client-supplied ID. Slots
// reference users owned by the Registry.
type Room struct {
	ID        string
	Slot1     *User
	Slot2     *User
	CreatedAt time.Time

	relay *Relay
}

// Paired reports whether both slots are occupied.
func (r *Room) Paired() bool {
	return r.Slot1 != nil && r.Slot2 != nil
}

// SlotOf returns the slot connID occupies, slot1 first.
func (r *Room) SlotOf(connID string) Slot {
	switch {
	case r.Slot1 != nil && r.Slot1.ID == connID:
		return Slot1
	case r.Slot2 != nil && r.Slot2.ID == connID:
		return Slot2
	default:
		return NoSlot
	}
}

// Occupants returns the names in the occupied slots, in slot order.
func (r *Room) Occupants() []string {
	names := make([]string, 0, 2)
	for _, u := range []*User{r.Slot1, r.Slot2} {
		if u != nil {
			names = append(names, u.Name)
		}
	}

	return names
}

// Relay returns the relay established when the room was paired, or nil.
func (r *Room) Relay() *Relay {
	return r.relay
}

// Directory maps room IDs to rooms. Like Registry, it relies on the
// Coordinator for serialization.
type Directory struct {
	rooms map[string]*Room
	now   func() time.Time
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: make(map[string]*Room),
		now:   time.Now,
	}
}

// GetOrCreate returns the room for id, inserting an empty one if it does not
// exist yet.
func (d *Directory) GetOrCreate(id string) *Room {
	if room, ok := d.rooms[id]; ok {
		return room
	}

	room := &Room{
		ID:        id,
		CreatedAt: d.now(),
	}
	d.rooms[id] = room

	return room
}

func (d *Directory) Get(id string) (*Room, error) {
	room, ok := d.rooms[id]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", id, ErrNotFound)
	}

	return room, nil
}

func (d *Directory) Delete(id string) {
	delete(d.rooms, id)
}

// Find scans for the room holding connID and stops at the first match.
func (d *Directory) Find(connID string) (*Room, Slot) {
	for _, room := range d.rooms {
		if slot := room.SlotOf(connID); slot != NoSlot {
			return room, slot
		}
	}

	return nil, NoSlot
}

func (d *Directory) Len() (rooms, paired int) {
	for _, room := range d.rooms {
		if room.Paired() {
			paired++
		}
	}

	return len(d.rooms), paired
}
