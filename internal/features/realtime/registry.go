package realtime

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conn is the write side of a client connection.
type Conn interface {
	WriteJSON(v interface{}) error
}

var errClientClosed = errors.New("realtime connection closed")

type client struct {
	id     string
	conn   Conn
	mu     sync.Mutex
	closed bool
}

func (c *client) write(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClientClosed
	}
	return c.conn.WriteJSON(v)
}

// close waits for an in-flight write, then blocks further writes
func (c *client) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// Registry tracks live connections per church and fans messages out to them.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]map[string]*client
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		clients: make(map[string]map[string]*client),
		logger:  logger,
	}
}

// Register adds a connection under churchID and returns its id.
func (r *Registry) Register(churchID string, conn Conn) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clients[churchID] == nil {
		r.clients[churchID] = make(map[string]*client)
	}
	r.clients[churchID][id] = &client{id: id, conn: conn}
	return id
}

// Deregister removes the connection. Once it returns the registry never
// writes to the connection again, so the caller may release it.
func (r *Registry) Deregister(churchID, id string) {
	r.mu.Lock()
	conns := r.clients[churchID]
	c, ok := conns[id]
	if ok {
		delete(conns, id)
		if len(conns) == 0 {
			delete(r.clients, churchID)
		}
	}
	r.mu.Unlock()

	if ok {
		c.close()
	}
}

// Count reports the number of live connections for churchID.
func (r *Registry) Count(churchID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients[churchID])
}

// Broadcast writes message to every connection of churchID and returns how many
// writes succeeded. Connections that fail are dropped.
func (r *Registry) Broadcast(churchID string, message interface{}) int {
	r.mu.RLock()
	snapshot := make([]*client, 0, len(r.clients[churchID]))
	for _, c := range r.clients[churchID] {
		snapshot = append(snapshot, c)
	}
	r.mu.RUnlock()

	delivered := 0
	for _, c := range snapshot {
		if err := c.write(message); err != nil {
			if errors.Is(err, errClientClosed) {
				continue
			}
			if r.logger != nil {
				r.logger.Warn("Dropping realtime connection",
					zap.String("tenant_id", churchID),
					zap.String("connection_id", c.id),
					zap.Error(err))
			}
			r.Deregister(churchID, c.id)
			continue
		}
		delivered++
	}
	return delivered
}
