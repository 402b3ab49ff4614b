// Package ws streams out topic events to websocket clients, with a replay buffer per topic so
// a client that reconnects can pick up where it left off.
package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/pkg/metrics"
)

const (
	defaultReplaySize = 1000
	sendBuffer        = 256
	pongWait          = 60 * time.Second
	pingPeriod        = 30 * time.Second
	writeWait         = 10 * time.Second
)

var errHubClosed = errors.New("stream hub closed")

// Message is one event with the sequence number a client can resume from.
type Message struct {
	Topic string          `json:"topic"`
	Seq   uint64          `json:"seq"`
	Data  json.RawMessage `json:"data"`
}

// ringBuffer holds the last N messages for a topic.
type ringBuffer struct {
	buf   []Message
	size  int
	start int
	count int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{buf: make([]Message, size), size: size}
}

// add appends a message, overwriting the oldest when full.
func (r *ringBuffer) add(msg Message) {
	idx := (r.start + r.count) % r.size
	if r.count == r.size {
		r.start = (r.start + 1) % r.size
		r.count--
	}
	r.buf[idx] = msg
	r.count++
}

// since returns the buffered messages with Seq > seq, oldest first.
func (r *ringBuffer) since(seq uint64) []Message {
	var out []Message
	for i := 0; i < r.count; i++ {
		msg := r.buf[(r.start+i)%r.size]
		if msg.Seq > seq {
			out = append(out, msg)
		}
	}
	return out
}

// Client is one websocket connection following a single topic.
type Client struct {
	topic string
	conn  *websocket.Conn
	send  chan Message
	hub   *Hub
}

// Hub fans messages out to the clients of each topic. All state is guarded by mu.
type Hub struct {
	mu         sync.Mutex
	clients    map[*Client]struct{}
	buffers    map[string]*ringBuffer
	replaySize int
	nextSeq    uint64
	closed     bool

	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHub creates a hub keeping replaySize messages per topic (1000 when replaySize <= 0).
func NewHub(replaySize int, logger *zap.Logger) *Hub {
	if replaySize <= 0 {
		replaySize = defaultReplaySize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		buffers:    make(map[string]*ringBuffer),
		replaySize: replaySize,
		nextSeq:    1,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Broadcast stores data in the replay buffer of topic and queues it for every client of the
// topic. Clients whose queue is full miss the message.
func (h *Hub) Broadcast(topic string, data []byte) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	msg := Message{Topic: topic, Seq: h.nextSeq, Data: data}
	h.nextSeq++

	buf, ok := h.buffers[topic]
	if !ok {
		buf = newRingBuffer(h.replaySize)
		h.buffers[topic] = buf
	}
	buf.add(msg)

	for c := range h.clients {
		if c.topic != topic {
			continue
		}
		select {
		case c.send <- msg:
		default:
			metrics.StreamDropped.WithLabelValues(topic).Inc()
			h.logger.Warn("dropping out topic event for slow stream client",
				zap.String("topic", topic), zap.Uint64("seq", msg.Seq))
		}
	}
	return msg.Seq
}

// Replay returns the buffered messages of topic after seq.
func (h *Hub) Replay(topic string, seq uint64) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	if buf, ok := h.buffers[topic]; ok {
		return buf.since(seq)
	}
	return nil
}

// ServeWS upgrades the request and streams topic to the client, starting with the buffered
// messages after since. The client is registered before the handshake so no message
// broadcast in between is missed.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, topic string, since uint64) error {
	c := &Client{topic: topic, hub: h}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "out topic stream is shutting down", http.StatusServiceUnavailable)
		return errHubClosed
	}
	var backlog []Message
	if buf, ok := h.buffers[topic]; ok {
		backlog = buf.since(since)
	}
	c.send = make(chan Message, len(backlog)+sendBuffer)
	for _, msg := range backlog {
		c.send <- msg
	}
	h.clients[c] = struct{}{}
	metrics.StreamClients.WithLabelValues(topic).Inc()
	h.mu.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.unregister(c)
		return err
	}
	c.conn = conn
	h.logger.Debug("stream client connected", zap.String("topic", topic), zap.Int("replayed", len(backlog)))

	go c.writePump()
	go c.readPump()
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.StreamClients.WithLabelValues(c.topic).Dec()
}

// readPump keeps the read deadline moving with pongs. Clients send nothing else of interest.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends queued messages and heartbeats.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
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
