package lobby

import "github.com/Seednode/tictactoe/wire"

// Event is an inbound event for the Coordinator. The set of implementations is
// closed: Connect, JoinRequest, Move and Disconnect.
type Event interface {
	event()
}

// Connect registers a newly established connection.
type Connect struct {
	Conn Conn
}

// JoinRequest asks to seat ConnID in RoomID under PlayerName.
type JoinRequest struct {
	ConnID     string
	RoomID     string
	PlayerName string
}

// Move carries an opaque move payload from ConnID to its opponent.
type Move struct {
	ConnID  string
	Payload wire.Raw
}

// Disconnect reports that ConnID is gone.
type Disconnect struct {
	ConnID string
}

// query runs fn on the coordinator goroutine, then closes done.
type query struct {
	fn   func()
	done chan struct{}
}

func (Connect) event()     {}
func (JoinRequest) event() {}
func (Move) event()        {}
func (Disconnect) event()  {}
func (query) event()       {}
