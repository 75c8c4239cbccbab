// Package dispatch serializes all inbound traffic onto the shared
// matchmaking state. One mutex is held for the full duration of each
// message or lifecycle event, so registry, session, and stats
// mutations are atomic with respect to other messages and handlers
// never observe partial state. Handlers never block: outbound sends
// are non-blocking pushes into bounded per-connection buffers.
package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"duelrelay/internal/model"
	"duelrelay/internal/protocol"
	"duelrelay/internal/services/match"
	"duelrelay/internal/services/presence"
	"duelrelay/internal/services/registry"
	"duelrelay/internal/services/relay"
)

// Dispatcher routes decoded client messages to the service that owns
// them. Malformed frames and unknown types are dropped silently; one
// connection's bad input never affects another.
type Dispatcher struct {
	mu sync.Mutex

	registry *registry.Registry
	presence *presence.Service
	match    *match.Engine
	relay    *relay.Service
	logger   *slog.Logger
}

// New creates a dispatcher over the wired services
func New(
	reg *registry.Registry,
	pres *presence.Service,
	eng *match.Engine,
	rel *relay.Service,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		registry: reg,
		presence: pres,
		match:    eng,
		relay:    rel,
		logger:   logger.With(slog.String("component", "dispatch")),
	}
}

// Connect registers a new connection and mints its client record
func (d *Dispatcher) Connect(conn registry.Conn) *model.Client {
	d.mu.Lock()
	defer d.mu.Unlock()

	client := d.registry.Add(conn)
	d.logger.Info("client connected",
		slog.String("client_id", string(client.ID)),
		slog.Int("total", d.registry.Len()))
	return client
}

// Disconnect cascades full teardown for a closing connection
func (d *Dispatcher) Disconnect(ctx context.Context, conn registry.Conn) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.relay.Disconnect(ctx, conn)
}

// Handle processes one raw inbound frame to completion
func (d *Dispatcher) Handle(ctx context.Context, conn registry.Conn, data []byte) {
	msg, err := protocol.DecodeClientMessage(data)
	if err != nil {
		// Malformed input gets no reply
		d.logger.Debug("dropping malformed message", slog.Any("error", err))
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch m := msg.(type) {
	case protocol.Login:
		d.presence.Login(ctx, conn, m.Name, m.Avatar)
	case protocol.CreatePrivate:
		d.match.CreatePrivate(ctx, conn, m.Name, m.Avatar)
	case protocol.JoinPrivate:
		d.match.JoinPrivate(ctx, conn, model.SessionID(m.SessionID), m.Name, m.Avatar)
	case protocol.ChallengeRequest:
		d.match.ChallengeRequest(ctx, conn, model.ClientID(m.TargetID))
	case protocol.ChallengeAccept:
		d.match.ChallengeAccept(ctx, conn, model.ClientID(m.TargetID))
	case protocol.Move:
		d.relay.Move(ctx, conn, model.SessionID(m.SessionID), m.Move)
	case protocol.GameOver:
		d.relay.GameOver(ctx, m.WinnerName, m.LoserName)
	case protocol.ReturnLobby:
		d.relay.ReturnLobby(ctx, conn)
	}
}
