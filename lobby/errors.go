/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package lobby

import "errors"

var (
	// ErrRoomFull is returned to a join against a room that already has two
	// occupants. It is signalled to the caller only.
	ErrRoomFull = errors.New("room is full")

	ErrNotFound          = errors.New("not found")
	ErrAlreadyRegistered = errors.New("connection already registered")
	ErrNotPaired         = errors.New("connection is not in a paired room")
	ErrRelayClosed       = errors.New("relay closed")
	ErrInvalidSlot       = errors.New("invalid slot")
	ErrStopped           = errors.New("coordinator stopped")
)
