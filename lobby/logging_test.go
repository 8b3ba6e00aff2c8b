package lobby

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Seednode/tictactoe/wire"
)

func newObservedCoordinator(t *testing.T) (*Coordinator, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.DebugLevel)

	return New(Options{Logger: zap.New(core)}), logs
}

func TestCoordinator_LogLevels(t *testing.T) {
	tests := []struct {
		name    string
		events  []Event
		message string
		level   zapcore.Level
	}{
		{
			name: "room full is expected",
			events: []Event{
				JoinRequest{ConnID: "a", RoomID: "abc", PlayerName: "Alice"},
				JoinRequest{ConnID: "b", RoomID: "abc", PlayerName: "Bob"},
				JoinRequest{ConnID: "c", RoomID: "abc", PlayerName: "Carol"},
			},
			message: "join rejected",
			level:   zapcore.DebugLevel,
		},
		{
			name:    "join from unknown connection is a logic error",
			events:  []Event{JoinRequest{ConnID: "ghost", RoomID: "abc", PlayerName: "Ghost"}},
			message: "join",
			level:   zapcore.ErrorLevel,
		},
		{
			name:    "move before pairing is dropped",
			events:  []Event{Move{ConnID: "a", Payload: wire.Raw(`{"cell":1}`)}},
			message: "move dropped",
			level:   zapcore.DebugLevel,
		},
		{
			name:    "move from unknown connection is a logic error",
			events:  []Event{Move{ConnID: "ghost", Payload: wire.Raw(`{"cell":1}`)}},
			message: "move",
			level:   zapcore.ErrorLevel,
		},
		{
			name:    "duplicate connect is a logic error",
			events:  []Event{Connect{Conn: &mockConn{id: "a"}}},
			message: "connect",
			level:   zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, logs := newObservedCoordinator(t)
			for _, id := range []string{"a", "b", "c"} {
				connect(t, c, id)
			}

			for _, ev := range tt.events {
				c.Dispatch(ev)
			}

			entries := logs.FilterMessage(tt.message).All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
		})
	}
}

func TestCoordinator_LogsMatchStart(t *testing.T) {
	c, logs := newObservedCoordinator(t)
	connect(t, c, "a")
	connect(t, c, "b")

	c.Dispatch(JoinRequest{ConnID: "a", RoomID: "abc", PlayerName: "Alice"})
	c.Dispatch(JoinRequest{ConnID: "b", RoomID: "abc", PlayerName: "Bob"})

	entries := logs.FilterMessage("match started").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["room"])
	assert.Equal(t, "Alice", fields["circle"])
	assert.Equal(t, "Bob", fields["cross"])
}
