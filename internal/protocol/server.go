package protocol

import (
	"encoding/json"

	"duelrelay/internal/model"
)

// ServerMessage is the closed set of messages the server sends.
// Constructors set the type discriminator; Encode is plain marshaling
// so a broadcast can be serialized once and pushed to many peers.
type ServerMessage interface {
	serverMessage()
}

// LoginSuccess acknowledges a login and reveals the caller's identity
type LoginSuccess struct {
	Type string `json:"type"`
	MyID string `json:"myId"`
}

// LobbyPlayer is one entry of the public lobby snapshot
type LobbyPlayer struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Avatar string      `json:"avatar"`
	Stats  model.Stats `json:"stats"`
}

// LobbyUpdate is the full public lobby snapshot
type LobbyUpdate struct {
	Type    string        `json:"type"`
	Players []LobbyPlayer `json:"players"`
}

// PrivateCreated tells the creator the shareable room id
type PrivateCreated struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
}

// ChallengeReceived notifies a lobby member of an incoming challenge
type ChallengeReceived struct {
	Type     string `json:"type"`
	FromID   string `json:"fromId"`
	FromName string `json:"fromName"`
}

// GameStart tells one member its session, color, and opponent name
type GameStart struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId"`
	Color     string `json:"color"`
	Opponent  string `json:"opponent"`
}

// MoveRelay forwards an opaque move payload to the other member
type MoveRelay struct {
	Type string          `json:"type"`
	Move json.RawMessage `json:"move"`
}

// OpponentDisconnected tells the survivor its peer dropped
type OpponentDisconnected struct {
	Type string `json:"type"`
}

// ErrorMessage surfaces a semantic error to the sender
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (LoginSuccess) serverMessage()         {}
func (LobbyUpdate) serverMessage()          {}
func (PrivateCreated) serverMessage()       {}
func (ChallengeReceived) serverMessage()    {}
func (GameStart) serverMessage()            {}
func (MoveRelay) serverMessage()            {}
func (OpponentDisconnected) serverMessage() {}
func (ErrorMessage) serverMessage()         {}

// NewLoginSuccess builds a login_success message
func NewLoginSuccess(id model.ClientID) LoginSuccess {
	return LoginSuccess{Type: TypeLoginSuccess, MyID: string(id)}
}

// NewLobbyUpdate builds a lobby_update message
func NewLobbyUpdate(players []LobbyPlayer) LobbyUpdate {
	return LobbyUpdate{Type: TypeLobbyUpdate, Players: players}
}

// NewPrivateCreated builds a private_created message
func NewPrivateCreated(id model.SessionID) PrivateCreated {
	return PrivateCreated{Type: TypePrivateCreated, SessionID: string(id)}
}

// NewChallengeReceived builds a challenge_received message
func NewChallengeReceived(from model.ClientID, name string) ChallengeReceived {
	return ChallengeReceived{Type: TypeChallengeReceived, FromID: string(from), FromName: name}
}

// NewGameStart builds a game_start message for one member
func NewGameStart(id model.SessionID, color model.Color, opponent string) GameStart {
	return GameStart{Type: TypeGameStart, SessionID: string(id), Color: string(color), Opponent: opponent}
}

// NewMoveRelay builds a relayed move message
func NewMoveRelay(move json.RawMessage) MoveRelay {
	return MoveRelay{Type: TypeMove, Move: move}
}

// NewOpponentDisconnected builds an opponent_disconnected message
func NewOpponentDisconnected() OpponentDisconnected {
	return OpponentDisconnected{Type: TypeOpponentDisconnected}
}

// NewError builds an error message
func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Message: message}
}

// Encode serializes a server message for the wire
func Encode(msg ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}
