package lobby

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	event string
	data  any
}

type mockConn struct {
	id      string
	sent    []sentMessage
	sendErr error
	mu      sync.Mutex
}

func (m *mockConn) ID() string { return m.id }

func (m *mockConn) Send(event string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMessage{event: event, data: data})
	return nil
}

func (m *mockConn) getSent() []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMessage(nil), m.sent...)
}

func (m *mockConn) events() []string {
	var out []string
	for _, s := range m.getSent() {
		out = append(out, s.event)
	}
	return out
}

func (m *mockConn) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

var errClosed = errors.New("connection closed")

func connect(t *testing.T, c *Coordinator, id string) *mockConn {
	t.Helper()
	conn := &mockConn{id: id}
	c.Dispatch(Connect{Conn: conn})
	_, err := c.users.Lookup(id)
	require.NoError(t, err)
	return conn
}
