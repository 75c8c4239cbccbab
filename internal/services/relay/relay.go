package relay

import (
	"context"
	"encoding/json"
	"log/slog"

	"duelrelay/internal/model"
	"duelrelay/internal/protocol"
	"duelrelay/internal/services/presence"
	"duelrelay/internal/services/registry"
	"duelrelay/internal/services/session"
	"duelrelay/internal/services/stats"
)

// Service relays in-session messages and owns session teardown. Move
// payloads are opaque: they are forwarded verbatim, never interpreted.
type Service struct {
	registry *registry.Registry
	sessions *session.Registry
	stats    *stats.Ledger
	presence *presence.Service
	logger   *slog.Logger
}

// New creates the relay service
func New(
	reg *registry.Registry,
	sessions *session.Registry,
	ledger *stats.Ledger,
	pres *presence.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		registry: reg,
		sessions: sessions,
		stats:    ledger,
		presence: pres,
		logger:   logger.With(slog.String("component", "relay")),
	}
}

// Move forwards a move payload to every session member except the
// sender, with no acknowledgement back. A session id that does not
// resolve is dropped silently.
func (s *Service) Move(ctx context.Context, conn registry.Conn, sessionID model.SessionID, move json.RawMessage) {
	sender, ok := s.registry.Get(conn)
	if !ok {
		return
	}
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}

	data, err := protocol.Encode(protocol.NewMoveRelay(move))
	if err != nil {
		s.logger.Error("failed to encode move relay", slog.Any("error", err))
		return
	}

	for _, memberID := range sess.Members {
		if memberID == sender.ID {
			continue
		}
		memberConn, _, ok := s.registry.Lookup(memberID)
		if !ok {
			continue
		}
		if !memberConn.Send(data) {
			s.logger.Warn("move dropped - client buffer full",
				slog.String("client_id", string(memberID)))
		}
	}
}

// GameOver applies a reported result to the stats ledger. Only names
// with existing records are touched; unknown names are ignored without
// error. The session itself stays alive until return_lobby or a
// disconnect.
func (s *Service) GameOver(ctx context.Context, winnerName, loserName string) {
	if err := s.stats.Record(ctx, winnerName, loserName); err != nil {
		s.logger.Error("failed to record game result",
			slog.String("winner", winnerName),
			slog.String("loser", loserName),
			slog.Any("error", err))
	}
}

// ReturnLobby moves the sender back to the lobby. The sender is also
// removed from its session's membership, destroying the session if
// that empties it, so no stale membership lingers.
func (s *Service) ReturnLobby(ctx context.Context, conn registry.Conn) {
	client, ok := s.registry.Get(conn)
	if !ok {
		return
	}

	s.sessions.Leave(client.ID)
	client.Status = model.StatusLobby

	s.presence.BroadcastLobby(ctx)
}

// Disconnect tears down everything attached to a closing connection:
// the session it may be in (notifying the survivor exactly once and
// returning them to the lobby), the registry entry, and finally a
// lobby re-broadcast run unconditionally.
func (s *Service) Disconnect(ctx context.Context, conn registry.Conn) {
	client, ok := s.registry.Get(conn)
	if !ok {
		return
	}

	if sess, ok := s.sessions.ByMember(client.ID); ok {
		survivorID, hasSurvivor := sess.Opponent(client.ID)
		s.sessions.Remove(sess.ID)

		if hasSurvivor {
			if survivorConn, survivor, ok := s.registry.Lookup(survivorID); ok {
				s.notifyOpponentGone(survivorConn, survivorID)
				survivor.Status = model.StatusLobby
			}
		}

		s.logger.Info("session torn down",
			slog.String("session_id", string(sess.ID)),
			slog.String("client_id", string(client.ID)))
	}

	s.registry.Remove(conn)

	s.logger.Info("client disconnected",
		slog.String("client_id", string(client.ID)),
		slog.Int("remaining", s.registry.Len()))

	s.presence.BroadcastLobby(ctx)
}

func (s *Service) notifyOpponentGone(conn registry.Conn, id model.ClientID) {
	data, err := protocol.Encode(protocol.NewOpponentDisconnected())
	if err != nil {
		return
	}
	if !conn.Send(data) {
		s.logger.Warn("disconnect notice dropped - client buffer full",
			slog.String("client_id", string(id)))
	}
}
