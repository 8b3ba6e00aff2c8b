/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package lobby pairs players into two-seat rooms and relays moves between
// them.
//
// All state lives in a Registry and a Directory owned by one Coordinator. The
// Coordinator processes one event at a time on its Run goroutine, so every
// read-modify-write of the stores is atomic without further locking.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultQueueSize = 256

type Options struct {
	Logger *zap.Logger

	// UserRetention is how long an offline user record is kept before the
	// reaper purges it. Zero purges at disconnect.
	UserRetention time.Duration

	// KeepOrphanRooms leaves a never-paired room in the directory after its
	// only occupant disconnects, instead of removing it.
	KeepOrphanRooms bool

	QueueSize int

	// Now defaults to time.Now.
	Now func() time.Time
}

type Coordinator struct {
	users *Registry
	rooms *Directory

	events  chan Event
	stopped chan struct{}

	log         *zap.Logger
	retention   time.Duration
	keepOrphans bool
	now         func() time.Time
}

func New(opts Options) *Coordinator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	rooms := NewDirectory()
	rooms.now = opts.Now

	return &Coordinator{
		users:       NewRegistry(),
		rooms:       rooms,
		events:      make(chan Event, opts.QueueSize),
		stopped:     make(chan struct{}),
		log:         opts.Logger,
		retention:   opts.UserRetention,
		keepOrphans: opts.KeepOrphanRooms,
		now:         opts.Now,
	}
}

// Run processes submitted events until ctx is cancelled. It must be called
// exactly once.
func (c *Coordinator) Run(ctx context.Context) error {
	defer close(c.stopped)

	var reap <-chan time.Time
	if c.retention > 0 {
		ticker := time.NewTicker(max(c.retention/2, time.Millisecond))
		defer ticker.Stop()

		reap = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.events:
			c.Dispatch(ev)
		case <-reap:
			c.reap()
		}
	}
}

// Submit queues ev for the Run goroutine. Events submitted from one goroutine
// are processed in submission order.
func (c *Coordinator) Submit(ctx context.Context, ev Event) error {
	select {
	case <-c.stopped:
		return ErrStopped
	default:
	}

	select {
	case c.events <- ev:
		return nil
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch handles a single event to completion. Outside of Run it may only
// be used by a caller that has exclusive use of the Coordinator.
func (c *Coordinator) Dispatch(ev Event) {
	switch ev := ev.(type) {
	case Connect:
		if _, err := c.users.Register(ev.Conn); err != nil {
			c.log.Error("connect", zap.Error(err))
			return
		}
		c.log.Debug("client connected", zap.String("conn", ev.Conn.ID()))

	case JoinRequest:
		err := c.Join(ev.ConnID, ev.RoomID, ev.PlayerName)
		switch {
		case err == nil:
		case errors.Is(err, ErrRoomFull):
			c.log.Debug("join rejected",
				zap.String("conn", ev.ConnID),
				zap.String("room", ev.RoomID),
				zap.Error(err),
			)
		default:
			c.log.Error("join", zap.String("conn", ev.ConnID), zap.Error(err))
		}

	case Move:
		err := c.Move(ev.ConnID, ev.Payload)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotFound):
			c.log.Error("move", zap.String("conn", ev.ConnID), zap.Error(err))
		default:
			c.log.Debug("move dropped", zap.String("conn", ev.ConnID), zap.Error(err))
		}

	case Disconnect:
		if err := c.Disconnect(ev.ConnID); err != nil {
			c.log.Error("disconnect", zap.String("conn", ev.ConnID), zap.Error(err))
		}

	case query:
		ev.fn()
		close(ev.done)

	default:
		c.log.Error("unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
	}
}

func (c *Coordinator) notify(u *User, event string, data any) {
	if err := u.send(event, data); err != nil {
		c.log.Debug("send failed",
			zap.String("conn", u.ID),
			zap.String("event", event),
			zap.Error(err),
		)
	}
}

func (c *Coordinator) reap() {
	if n := c.users.Purge(c.now().Add(-c.retention)); n > 0 {
		c.log.Debug("purged offline users", zap.Int("count", n))
	}
}

// do runs fn on the Run goroutine and waits for it to finish.
func (c *Coordinator) do(ctx context.Context, fn func()) error {
	q := query{fn: fn, done: make(chan struct{})}

	if err := c.Submit(ctx, q); err != nil {
		return err
	}

	select {
	case <-q.done:
		return nil
	case <-c.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

type Stats struct {
	Rooms  int `json:"rooms"`
	Paired int `json:"paired"`
	Users  int `json:"users"`
	Online int `json:"online"`
}

func (c *Coordinator) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	err := c.do(ctx, func() {
		s.Rooms, s.Paired = c.rooms.Len()
		s.Online, s.Users = c.users.Len()
	})

	return s, err
}

// RoomInfo is a copy of a room's state safe to hand outside the coordinator.
type RoomInfo struct {
	ID        string    `json:"roomId"`
	Occupants []string  `json:"occupants"`
	Paired    bool      `json:"paired"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Room describes the room with the given ID, or returns ErrNotFound.
func (c *Coordinator) Room(ctx context.Context, id string) (RoomInfo, error) {
	var (
		info    RoomInfo
		findErr error
	)

	err := c.do(ctx, func() {
		room, err := c.rooms.Get(id)
		if err != nil {
			findErr = err
			return
		}

		info = RoomInfo{
			ID:        room.ID,
			Occupants: room.Occupants(),
			Paired:    room.Paired(),
			CreatedAt: room.CreatedAt,
		}
	})
	if err != nil {
		return RoomInfo{}, err
	}

	return info, findErr
}
