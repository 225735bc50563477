package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Message is the JSON envelope for everything sent over the socket.
type Message struct {
	Type    string `json:"type"` // "view", "won", "invoke", "result"
	Payload any    `json:"payload"`
}

// Client is one connected presentation client.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

type envelope struct {
	to  *Client
	msg []byte
}

// Hub keeps the set of connected clients and fans snapshots out to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	direct     chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// onMessage handles messages a client sends; the returned message, if
	// any, goes back to that client only.
	onMessage func(ctx context.Context, m Message) *Message
}

func NewHub(onMessage func(ctx context.Context, m Message) *Message) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		direct:     make(chan envelope, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		onMessage:  onMessage,
	}
}

// Run is the hub's event loop. It returns when ctx is done, closing every
// client.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
	}()
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			slog.DebugContext(ctx, "ws client registered", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow client; drop it
					close(c.send)
					delete(h.clients, c)
				}
			}

		case e := <-h.direct:
			if !h.clients[e.to] {
				continue
			}
			select {
			case e.to.send <- e.msg:
			default:
			}

		case <-ctx.Done():
			return nil
		}
	}
}

// Publish queues m for every client. It never blocks the caller; if the
// broadcast queue is full the message is dropped and the next one will carry
// fresher state anyway.
func (h *Hub) Publish(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		slog.Error("ws marshal failed", "type", m.Type, "err", err)
		return
	}
	select {
	case h.broadcast <- b:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.WarnContext(r.Context(), "ws upgrade failed", "err", err)
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 64)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	ctx := context.Background()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("ws read failed", "err", err)
			}
			return
		}
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			slog.Debug("ws bad message", "err", err)
			continue
		}
		if c.hub.onMessage == nil {
			continue
		}
		reply := c.hub.onMessage(ctx, m)
		if reply == nil {
			continue
		}
		b, err := json.Marshal(reply)
		if err != nil {
			continue
		}
		select {
		case c.hub.direct <- envelope{to: c, msg: b}:
		case <-c.hub.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}
