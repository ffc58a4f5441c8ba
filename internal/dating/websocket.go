package dating

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Fatherly-P-Titus/AkwaConnect/internal/auth"
	"github.com/Fatherly-P-Titus/AkwaConnect/internal/common/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 64
	frameTimeout   = 5 * time.Second
)

// Message types pushed to clients
const (
	MessageNewMatch = "new_match"
	MessageError    = "error"
)

// FrameHandler executes commands clients send over the socket. Returned
// errors are echoed back to the sender.
type FrameHandler interface {
	HandleFrame(ctx context.Context, userID, frameType string, data json.RawMessage) error
}

type inboundFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type frameError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type Message struct {
	Type   string      `json:"type"`
	UserID string      `json:"-"`
	Data   interface{} `json:"data"`
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	userID string
}

type countRequest struct {
	userID string
	reply  chan int
}

// Hub fans messages out to every open connection of a user. All client
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	counts     chan countRequest
	done       chan struct{}
	upgrader   websocket.Upgrader
	frames     FrameHandler
}

// NewHub creates a hub. An empty origins list or a "*" entry accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countRequest),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// HandleFrames routes client frames to fh. Call it before Run.
func (h *Hub) HandleFrames(fh FrameHandler) {
	h.frames = fh
}

// Run processes hub events until ctx is cancelled, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			zap.L().Debug("websocket connected", zap.String("user_id", client.userID), zap.Int("connections", len(conns)))

		case client := <-h.unregister:
			h.remove(client)

		case message := <-h.broadcast:
			for client := range h.clients[message.UserID] {
				select {
				case client.send <- message:
				default:
					h.remove(client)
				}
			}

		case req := <-h.counts:
			req.reply <- len(h.clients[req.userID])

		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					close(client.send)
				}
			}
			h.clients = map[string]map[*Client]struct{}{}
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	conns, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.userID)
	}
	zap.L().Debug("websocket disconnected", zap.String("user_id", client.userID))
}

// Send queues a message for userID. It drops the message once the hub has stopped.
func (h *Hub) Send(userID, msgType string, data interface{}) {
	select {
	case h.broadcast <- Message{Type: msgType, UserID: userID, Data: data}:
	case <-h.done:
	}
}

// NotifyMatch tells both users about a new match. Each side receives the
// other's id and name.
func (h *Hub) NotifyMatch(userID, userName, otherID, otherName string, event MatchEvent) {
	forOther := event
	forOther.MatchUserID = userID
	forOther.MatchName = userName
	h.Send(otherID, MessageNewMatch, forOther)

	forUser := event
	forUser.MatchUserID = otherID
	forUser.MatchName = otherName
	h.Send(userID, MessageNewMatch, forUser)
}

// Connections returns how many sockets userID has open
func (h *Hub) Connections(userID string) int {
	reply := make(chan int, 1)
	select {
	case h.counts <- countRequest{userID: userID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// ServeWS upgrades an authenticated request and registers the connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.String("user_id", userID), zap.Error(err))
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		userID: userID,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump hands each client frame to the hub's FrameHandler
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Type == "" {
		c.hub.Send(c.userID, MessageError, frameError{Error: "invalid frame"})
		return
	}
	if c.hub.frames == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()
	if err := c.hub.frames.HandleFrame(ctx, c.userID, frame.Type, frame.Data); err != nil {
		zap.L().Debug("frame rejected", zap.String("user_id", c.userID), zap.String("type", frame.Type), zap.Error(err))
		c.hub.Send(c.userID, MessageError, frameError{Type: frame.Type, Error: err.Error()})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
