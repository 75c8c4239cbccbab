package registry

import (
	"sync"

	"github.com/google/uuid"

	"duelrelay/internal/dependencies/clock"
	"duelrelay/internal/model"
)

// Conn is the transport-side handle for a connected client. The
// registry references handles but never owns them; the transport layer
// creates and closes the underlying connection.
type Conn interface {
	// Send queues an encoded message for delivery without blocking.
	// It reports whether the message was accepted; a connection whose
	// outbound buffer is full rejects the message and is torn down by
	// the transport.
	Send(data []byte) bool

	// Close tears down the underlying connection
	Close() error
}

// Registry maps live connections to client records. Identity lookups
// are backed by a secondary index rather than a scan, so resolve and
// teardown are O(1).
type Registry struct {
	mu     sync.RWMutex
	byConn map[Conn]*model.Client
	byID   map[model.ClientID]Conn
	clock  clock.Clock
}

// New creates an empty registry
func New(clk clock.Clock) *Registry {
	return &Registry{
		byConn: make(map[Conn]*model.Client),
		byID:   make(map[model.ClientID]Conn),
		clock:  clk,
	}
}

// Add registers a new connection and mints its client record. The
// identity is a fresh UUID, unique and stable for the connection's
// life.
func (r *Registry) Add(conn Conn) *model.Client {
	client := &model.Client{
		ID:          model.ClientID(uuid.NewString()),
		DisplayName: model.DefaultDisplayName,
		AvatarTag:   model.DefaultAvatarTag,
		Status:      model.StatusConnecting,
		ConnectedAt: r.clock.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byConn[conn] = client
	r.byID[client.ID] = conn
	return client
}

// Get returns the client record for a connection
func (r *Registry) Get(conn Conn) (*model.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.byConn[conn]
	return client, ok
}

// Lookup resolves an identity to its connection and record
func (r *Registry) Lookup(id model.ClientID) (Conn, *model.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byID[id]
	if !ok {
		return nil, nil, false
	}
	return conn, r.byConn[conn], true
}

// Remove deletes a connection's registry entry, returning the record
// that was attached so callers can cascade session teardown
func (r *Registry) Remove(conn Conn) (*model.Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.byConn[conn]
	if !ok {
		return nil, false
	}
	delete(r.byConn, conn)
	delete(r.byID, client.ID)
	return client, true
}

// Entry pairs a connection with its client record
type Entry struct {
	Conn   Conn
	Client *model.Client
}

// WithStatus returns all entries currently in the given status
func (r *Registry) WithStatus(status model.Status) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entries []Entry
	for conn, client := range r.byConn {
		if client.Status == status {
			entries = append(entries, Entry{Conn: conn, Client: client})
		}
	}
	return entries
}

// Len returns the number of live connections
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
