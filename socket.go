// Websocket transport for the lobby.
//
// Each connection gets a UUID, a read pump that turns frames into lobby
// events and a write pump that owns all writes to the socket. Outbound
// messages are queued without blocking; a client that cannot keep up is
// dropped, which the lobby sees as an ordinary disconnect.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"github.com/Seednode/tictactoe/lobby"
	"github.com/Seednode/tictactoe/wire"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	sendQueueSize = 32
)

var (
	errClientClosed  = errors.New("client closed")
	errSendQueueFull = errors.New("send queue full")
	errUnknownEvent  = errors.New("unknown event")
)

type Client struct {
	id    string
	conn  *websocket.Conn
	codec wire.Codec
	send  chan []byte
	done  chan struct{}
	once  sync.Once
	log   *zap.Logger
}

func newClient(id string, conn *websocket.Conn, codec wire.Codec, logger *zap.Logger) *Client {
	return &Client{
		id:    id,
		conn:  conn,
		codec: codec,
		send:  make(chan []byte, sendQueueSize),
		done:  make(chan struct{}),
		log:   logger.With(zap.String("conn", id)),
	}
}

func (c *Client) ID() string { return c.id }

// Send encodes a message and queues it for the write pump.
func (c *Client) Send(event string, data any) error {
	msg, err := c.codec.Marshal(event, data)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return errClientClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.close()

		return errSendQueueFull
	}
}

func (c *Client) close() {
	c.once.Do(func() { close(c.done) })
}

// decode turns a frame into the lobby event it represents.
func (c *Client) decode(data []byte) (lobby.Event, error) {
	frame, err := c.codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	switch frame.Event {
	case wire.EventJoin:
		var req wire.JoinRequest
		if err := c.codec.Decode(frame.Data, &req); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", frame.Event, err)
		}

		return lobby.JoinRequest{
			ConnID:     c.id,
			RoomID:     req.RoomID,
			PlayerName: req.PlayerName,
		}, nil

	case wire.EventMoveFromClient:
		return lobby.Move{ConnID: c.id, Payload: frame.Data}, nil

	default:
		return nil, fmt.Errorf("%w %q", errUnknownEvent, frame.Event)
	}
}

func (c *Client) readPump(ctx context.Context, coord *lobby.Coordinator) {
	defer func() {
		c.close()
		_ = c.conn.Close()

		if err := coord.Submit(ctx, lobby.Disconnect{ConnID: c.id}); err != nil {
			c.log.Debug("disconnect not delivered", zap.Error(err))
		}

		c.log.Info("client disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Debug("read failed", zap.Error(err))
			}
			return
		}

		ev, err := c.decode(data)
		if err != nil {
			c.log.Debug("dropping frame", zap.Error(err))
			continue
		}

		if err := coord.Submit(ctx, ev); err != nil {
			return
		}
	}
}

func (c *Client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(c.codec.MessageType(), msg); err != nil {
				c.close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			return
		}
	}
}

// checkOrigin allows every origin when none are configured. Requests without
// an Origin header come from non-browser clients and are always allowed.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}

	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[normalizeOrigin(o)] = true
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		return origins[normalizeOrigin(origin)]
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}

func serveWS(ctx context.Context, cfg *Config, coord *lobby.Coordinator, codec wire.Codec, logger *zap.Logger) httprouter.Handle {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     checkOrigin(cfg.allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug("upgrade failed", zap.String("remote", realIP(r)), zap.Error(err))
			return
		}

		client := newClient(uuid.NewString(), conn, codec, logger)

		if err := coord.Submit(ctx, lobby.Connect{Conn: client}); err != nil {
			_ = conn.Close()
			return
		}

		client.log.Info("client connected", zap.String("remote", realIP(r)))

		go client.writePump(ctx)
		client.readPump(ctx, coord)
	}
}
