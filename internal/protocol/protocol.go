// Package protocol defines the JSON wire messages exchanged over a
// client's websocket channel. Every message carries a "type"
// discriminator; client messages decode into a closed set of variants
// so dispatch over them is checked at build time.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Client-to-server message types
const (
	TypeLogin            = "login"
	TypeCreatePrivate    = "create_private"
	TypeJoinPrivate      = "join_private"
	TypeChallengeRequest = "challenge_request"
	TypeChallengeAccept  = "challenge_accept"
	TypeMove             = "move"
	TypeGameOver         = "game_over"
	TypeReturnLobby      = "return_lobby"
)

// Server-to-client message types
const (
	TypeLoginSuccess         = "login_success"
	TypeLobbyUpdate          = "lobby_update"
	TypePrivateCreated       = "private_created"
	TypeChallengeReceived    = "challenge_received"
	TypeGameStart            = "game_start"
	TypeOpponentDisconnected = "opponent_disconnected"
	TypeError                = "error"
)

// ErrUnknownType is returned when the type discriminator does not name
// a known client message
var ErrUnknownType = errors.New("unknown message type")

// ClientMessage is the closed set of messages a client may send
type ClientMessage interface {
	clientMessage()
}

// Login asserts a display name and avatar and enters the lobby
type Login struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CreatePrivate opens a private room and waits for a joiner
type CreatePrivate struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// JoinPrivate joins a private room by its shared session id
type JoinPrivate struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
}

// ChallengeRequest invites another lobby member to a game
type ChallengeRequest struct {
	TargetID string `json:"targetId"`
}

// ChallengeAccept accepts a previously received challenge
type ChallengeAccept struct {
	TargetID string `json:"targetId"`
}

// Move carries an opaque move payload to be relayed verbatim
type Move struct {
	SessionID string          `json:"sessionId"`
	Move      json.RawMessage `json:"move"`
}

// GameOver reports a finished game for stats accounting
type GameOver struct {
	WinnerName string `json:"winnerName"`
	LoserName  string `json:"loserName"`
}

// ReturnLobby leaves the current session and re-enters the lobby
type ReturnLobby struct{}

func (Login) clientMessage()            {}
func (CreatePrivate) clientMessage()    {}
func (JoinPrivate) clientMessage()      {}
func (ChallengeRequest) clientMessage() {}
func (ChallengeAccept) clientMessage()  {}
func (Move) clientMessage()             {}
func (GameOver) clientMessage()         {}
func (ReturnLobby) clientMessage()      {}

// DecodeClientMessage parses a raw inbound frame into one of the
// ClientMessage variants. Malformed frames and unknown types return an
// error; callers drop those silently per the protocol contract.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}

	switch envelope.Type {
	case TypeLogin:
		return decodeAs[Login](data)
	case TypeCreatePrivate:
		return decodeAs[CreatePrivate](data)
	case TypeJoinPrivate:
		return decodeAs[JoinPrivate](data)
	case TypeChallengeRequest:
		return decodeAs[ChallengeRequest](data)
	case TypeChallengeAccept:
		return decodeAs[ChallengeAccept](data)
	case TypeMove:
		return decodeAs[Move](data)
	case TypeGameOver:
		return decodeAs[GameOver](data)
	case TypeReturnLobby:
		return ReturnLobby{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, envelope.Type)
	}
}

func decodeAs[T ClientMessage](data []byte) (ClientMessage, error) {
	var msg T
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("malformed message: %w", err)
	}
	return msg, nil
}
