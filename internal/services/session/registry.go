package session

import (
	"sync"

	"duelrelay/internal/dependencies/clock"
	"duelrelay/internal/model"
)

// Registry maps session ids to live sessions. A member→session reverse
// index keeps disconnect teardown O(1); a connection is a member of at
// most one session at a time.
type Registry struct {
	mu       sync.RWMutex
	byID     map[model.SessionID]*model.Session
	byMember map[model.ClientID]model.SessionID
	clock    clock.Clock
}

// New creates an empty session registry
func New(clk clock.Clock) *Registry {
	return &Registry{
		byID:     make(map[model.SessionID]*model.Session),
		byMember: make(map[model.ClientID]model.SessionID),
		clock:    clk,
	}
}

// Create opens a new session with a single founding member. Sessions
// never exist with zero members.
func (r *Registry) Create(id model.SessionID, creator model.ClientID, private bool) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byMember[creator]; ok {
		return nil, model.ErrAlreadyInSession
	}

	session := &model.Session{
		ID:        id,
		Members:   []model.ClientID{creator},
		Private:   private,
		CreatedAt: r.clock.Now(),
	}
	r.byID[id] = session
	r.byMember[creator] = id
	return session, nil
}

// Get resolves a session by id
func (r *Registry) Get(id model.SessionID) (*model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.byID[id]
	return session, ok
}

// Exists reports whether a session id is taken
func (r *Registry) Exists(id model.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok
}

// ByMember resolves the session a client belongs to
func (r *Registry) ByMember(id model.ClientID) (*model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessionID, ok := r.byMember[id]
	if !ok {
		return nil, false
	}
	return r.byID[sessionID], true
}

// Join appends a second member. It fails when the session is missing
// or already full, with no state change.
func (r *Registry) Join(id model.SessionID, joiner model.ClientID) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if session.IsFull() {
		return nil, model.ErrSessionFull
	}
	if _, ok := r.byMember[joiner]; ok {
		return nil, model.ErrAlreadyInSession
	}

	session.Members = append(session.Members, joiner)
	r.byMember[joiner] = id
	return session, nil
}

// AssignColors records the color bijection for a full session.
// Assignment happens exactly once; later calls are ignored.
func (r *Registry) AssignColors(id model.SessionID, colors map[model.ClientID]model.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok || session.Colors != nil {
		return
	}
	session.Colors = colors
}

// Leave removes a member from its session. When the session empties it
// is destroyed outright; no zero-member sessions linger.
func (r *Registry) Leave(member model.ClientID) (*model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionID, ok := r.byMember[member]
	if !ok {
		return nil, false
	}
	session := r.byID[sessionID]

	delete(r.byMember, member)
	for i, m := range session.Members {
		if m == member {
			session.Members = append(session.Members[:i], session.Members[i+1:]...)
			break
		}
	}

	if len(session.Members) == 0 {
		delete(r.byID, sessionID)
	}
	return session, true
}

// Remove destroys a session and clears the reverse index for all of
// its members
func (r *Registry) Remove(id model.SessionID) (*model.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	for _, m := range session.Members {
		delete(r.byMember, m)
	}
	return session, true
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
