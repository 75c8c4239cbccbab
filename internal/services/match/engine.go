package match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"duelrelay/internal/dependencies/random"
	"duelrelay/internal/model"
	"duelrelay/internal/protocol"
	"duelrelay/internal/services/presence"
	"duelrelay/internal/services/registry"
	"duelrelay/internal/services/session"
	"duelrelay/internal/services/stats"
)

const (
	// RoomCodeLength is the length of generated private room codes
	RoomCodeLength = 6
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Engine runs both matchmaking paths: public challenges between lobby
// members and private rooms joined by a shared code. Both converge on
// startSession, which flips a coin for colors and moves the pair to
// Playing.
type Engine struct {
	registry *registry.Registry
	sessions *session.Registry
	presence *presence.Service
	stats    *stats.Ledger
	random   random.Random
	logger   *slog.Logger
}

// New creates the matchmaking engine
func New(
	reg *registry.Registry,
	sessions *session.Registry,
	pres *presence.Service,
	ledger *stats.Ledger,
	rnd random.Random,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		registry: reg,
		sessions: sessions,
		presence: pres,
		stats:    ledger,
		random:   rnd,
		logger:   logger.With(slog.String("component", "match")),
	}
}

// ChallengeRequest forwards a challenge to a lobby member. Targets that
// cannot be resolved or are not currently in the lobby are dropped
// silently: a stale challenge gets no error, it just goes nowhere.
func (e *Engine) ChallengeRequest(ctx context.Context, conn registry.Conn, targetID model.ClientID) {
	caller, ok := e.registry.Get(conn)
	if !ok {
		return
	}
	if targetID == caller.ID {
		e.sendError(conn, "You cannot challenge yourself")
		return
	}

	targetConn, target, ok := e.registry.Lookup(targetID)
	if !ok || target.Status != model.StatusLobby {
		return
	}

	e.send(targetConn, target.ID, protocol.NewChallengeReceived(caller.ID, caller.DisplayName))
}

// ChallengeAccept starts a session between the caller and the
// challenger it names. The opponent is re-validated at accept time:
// if they already left the lobby the accept fails closed with an
// error and no state changes, so stale accepts cannot orphan sessions.
func (e *Engine) ChallengeAccept(ctx context.Context, conn registry.Conn, targetID model.ClientID) {
	caller, ok := e.registry.Get(conn)
	if !ok {
		return
	}
	if targetID == caller.ID {
		e.sendError(conn, "You cannot challenge yourself")
		return
	}

	_, target, ok := e.registry.Lookup(targetID)
	if !ok || target.Status != model.StatusLobby {
		e.sendError(conn, "Opponent is no longer available")
		return
	}

	sessionID := model.SessionID(uuid.NewString())
	if _, err := e.sessions.Create(sessionID, target.ID, false); err != nil {
		e.sendError(conn, "Opponent is no longer available")
		return
	}
	if _, err := e.sessions.Join(sessionID, caller.ID); err != nil {
		e.sessions.Remove(sessionID)
		e.sendError(conn, "Opponent is no longer available")
		return
	}

	e.startSession(ctx, sessionID)
}

// CreatePrivate opens a one-member session keyed by a shareable room
// code. The creator waits outside the public lobby until someone joins.
func (e *Engine) CreatePrivate(ctx context.Context, conn registry.Conn, name, avatar string) {
	creator, ok := e.registry.Get(conn)
	if !ok {
		return
	}

	creator.DisplayName = model.SanitizeDisplayName(name)
	creator.AvatarTag = avatar
	if err := e.stats.Ensure(ctx, creator.DisplayName); err != nil {
		e.logger.Error("failed to ensure stats record", slog.Any("error", err))
	}

	// Mint a code that is not in use; the space is large enough that
	// retries are rare
	var sessionID model.SessionID
	for {
		sessionID = model.SessionID(e.random.String(RoomCodeLength, RoomCodeAlphabet))
		if !e.sessions.Exists(sessionID) {
			break
		}
	}

	if _, err := e.sessions.Create(sessionID, creator.ID, true); err != nil {
		e.sendError(conn, "You are already in a game")
		return
	}
	creator.Status = model.StatusWaitingPrivate

	e.send(conn, creator.ID, protocol.NewPrivateCreated(sessionID))

	e.logger.Info("private room created",
		slog.String("session_id", string(sessionID)),
		slog.String("client_id", string(creator.ID)))

	// The creator may have been visible in the lobby before this
	e.presence.BroadcastLobby(ctx)
}

// JoinPrivate joins an existing one-member room by its code and starts
// the session. A missing or full room yields an error and no mutation.
func (e *Engine) JoinPrivate(ctx context.Context, conn registry.Conn, sessionID model.SessionID, name, avatar string) {
	joiner, ok := e.registry.Get(conn)
	if !ok {
		return
	}

	if _, err := e.sessions.Join(sessionID, joiner.ID); err != nil {
		if errors.Is(err, model.ErrAlreadyInSession) {
			e.sendError(conn, "You are already in a game")
		} else {
			e.sendError(conn, "Room not found or full")
		}
		return
	}

	joiner.DisplayName = model.SanitizeDisplayName(name)
	joiner.AvatarTag = avatar
	if err := e.stats.Ensure(ctx, joiner.DisplayName); err != nil {
		e.logger.Error("failed to ensure stats record", slog.Any("error", err))
	}

	e.startSession(ctx, sessionID)
}

// startSession moves both members to Playing, assigns colors by an
// unbiased coin flip, tells each member its color and opponent, and
// removes the pair from the public lobby view.
func (e *Engine) startSession(ctx context.Context, sessionID model.SessionID) {
	sess, ok := e.sessions.Get(sessionID)
	if !ok || !sess.IsFull() {
		return
	}

	first, second := sess.Members[0], sess.Members[1]
	colors := map[model.ClientID]model.Color{
		first:  model.ColorWhite,
		second: model.ColorBlack,
	}
	if e.random.Coin() {
		colors[first], colors[second] = model.ColorBlack, model.ColorWhite
	}
	e.sessions.AssignColors(sessionID, colors)

	names := make(map[model.ClientID]string, 2)
	for _, memberID := range sess.Members {
		_, member, ok := e.registry.Lookup(memberID)
		if !ok {
			continue
		}
		member.Status = model.StatusPlaying
		names[memberID] = member.DisplayName
	}

	for _, memberID := range sess.Members {
		conn, _, ok := e.registry.Lookup(memberID)
		if !ok {
			continue
		}
		opponentID, _ := sess.Opponent(memberID)
		e.send(conn, memberID, protocol.NewGameStart(sessionID, colors[memberID], names[opponentID]))
	}

	e.logger.Info("session started",
		slog.String("session_id", string(sessionID)),
		slog.Bool("private", sess.Private))

	e.presence.BroadcastLobby(ctx)
}

func (e *Engine) send(conn registry.Conn, id model.ClientID, msg protocol.ServerMessage) {
	data, err := protocol.Encode(msg)
	if err != nil {
		e.logger.Error("failed to encode message", slog.Any("error", err))
		return
	}
	if !conn.Send(data) {
		e.logger.Warn("message dropped - client buffer full",
			slog.String("client_id", string(id)))
	}
}

func (e *Engine) sendError(conn registry.Conn, message string) {
	data, err := protocol.Encode(protocol.NewError(message))
	if err != nil {
		return
	}
	conn.Send(data)
}
