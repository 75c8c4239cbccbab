package presence

import (
	"context"
	"log/slog"
	"sort"

	"duelrelay/internal/model"
	"duelrelay/internal/protocol"
	"duelrelay/internal/services/registry"
	"duelrelay/internal/services/session"
	"duelrelay/internal/services/stats"
)

// Service handles login and the public lobby broadcast. The lobby
// snapshot contains exactly the connections whose status is Lobby and
// must be re-pushed after every transition into or out of that status.
type Service struct {
	registry *registry.Registry
	sessions *session.Registry
	stats    *stats.Ledger
	logger   *slog.Logger
}

// New creates the presence service
func New(reg *registry.Registry, sessions *session.Registry, ledger *stats.Ledger, logger *slog.Logger) *Service {
	return &Service{
		registry: reg,
		sessions: sessions,
		stats:    ledger,
		logger:   logger.With(slog.String("component", "presence")),
	}
}

// Login applies a client-asserted name and avatar, moves the client to
// the lobby, acknowledges with login_success, and re-broadcasts. A
// client that logs in again mid-session leaves that session first;
// Lobby status always means membership in zero sessions.
func (s *Service) Login(ctx context.Context, conn registry.Conn, name, avatar string) {
	client, ok := s.registry.Get(conn)
	if !ok {
		return
	}

	client.DisplayName = model.SanitizeDisplayName(name)
	client.AvatarTag = avatar
	s.sessions.Leave(client.ID)
	client.Status = model.StatusLobby

	if err := s.stats.Ensure(ctx, client.DisplayName); err != nil {
		s.logger.Error("failed to ensure stats record",
			slog.String("name", client.DisplayName),
			slog.Any("error", err))
	}

	s.send(conn, client.ID, protocol.NewLoginSuccess(client.ID))

	s.logger.Info("client logged in",
		slog.String("client_id", string(client.ID)),
		slog.String("name", client.DisplayName))

	s.BroadcastLobby(ctx)
}

// BroadcastLobby pushes the current lobby snapshot to every
// lobby-status connection, including whoever just transitioned. The
// snapshot is serialized once and the same bytes go to every peer.
func (s *Service) BroadcastLobby(ctx context.Context) {
	entries := s.registry.WithStatus(model.StatusLobby)

	players := make([]protocol.LobbyPlayer, 0, len(entries))
	for _, e := range entries {
		players = append(players, protocol.LobbyPlayer{
			ID:     string(e.Client.ID),
			Name:   e.Client.DisplayName,
			Avatar: e.Client.AvatarTag,
			Stats:  s.stats.Get(ctx, e.Client.DisplayName),
		})
	}
	// Registry iteration order is not stable; sort for a deterministic wire view
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })

	data, err := protocol.Encode(protocol.NewLobbyUpdate(players))
	if err != nil {
		s.logger.Error("failed to encode lobby update", slog.Any("error", err))
		return
	}

	dropped := 0
	for _, e := range entries {
		if !e.Conn.Send(data) {
			dropped++
		}
	}
	if dropped > 0 {
		s.logger.Warn("lobby broadcast partial failure",
			slog.Int("sent", len(entries)-dropped),
			slog.Int("dropped", dropped))
	}
}

func (s *Service) send(conn registry.Conn, id model.ClientID, msg protocol.ServerMessage) {
	data, err := protocol.Encode(msg)
	if err != nil {
		s.logger.Error("failed to encode message", slog.Any("error", err))
		return
	}
	if !conn.Send(data) {
		s.logger.Warn("message dropped - client buffer full",
			slog.String("client_id", string(id)))
	}
}
