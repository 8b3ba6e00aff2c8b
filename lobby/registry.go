/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package lobby

import (
	"fmt"
	"time"
)

// Conn is the part of a client connection the lobby needs: an identity and a
// way to address a named event to it. Send must not block.
type Conn interface {
	ID() string
	Send(event string, data any) error
}

// User holds what we track per connection.
type User struct {
	ID      string
	Name    string
	Online  bool
	Playing bool

	conn      Conn
	relay     *Relay
	offlineAt time.Time
}

func (u *User) send(event string, data any) error {
	return u.conn.Send(event, data)
}

// Registry maps connection IDs to users. It is not safe for concurrent use;
// the Coordinator serializes all access.
type Registry struct {
	users map[string]*User
}

func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*User),
	}
}

// Register creates an online, not-yet-playing user for conn.
func (r *Registry) Register(conn Conn) (*User, error) {
	id := conn.ID()

	if _, ok := r.users[id]; ok {
		return nil, fmt.Errorf("register %s: %w", id, ErrAlreadyRegistered)
	}

	u := &User{
		ID:     id,
		Online: true,
		conn:   conn,
	}
	r.users[id] = u

	return u, nil
}

func (r *Registry) Lookup(id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}

	return u, nil
}

// MarkOffline clears the online and playing flags and remembers when the
// user went away, for Purge.
func (r *Registry) MarkOffline(id string, at time.Time) error {
	u, err := r.Lookup(id)
	if err != nil {
		return err
	}

	u.Online = false
	u.Playing = false
	u.offlineAt = at

	return nil
}

func (r *Registry) Remove(id string) {
	delete(r.users, id)
}

// Purge drops users that went offline before cutoff and returns how many
// were removed.
func (r *Registry) Purge(cutoff time.Time) int {
	removed := 0

	for id, u := range r.users {
		if u.Online || !u.offlineAt.Before(cutoff) {
			continue
		}

		delete(r.users, id)
		removed++
	}

	return removed
}

func (r *Registry) Len() (online, total int) {
	for _, u := range r.users {
		if u.Online {
			online++
		}
	}

	return online, len(r.users)
}
