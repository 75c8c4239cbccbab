package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"

	"duelrelay/internal/model"
)

type ProtocolSuite struct {
	suite.Suite
}

func TestProtocolSuite(t *testing.T) {
	suite.Run(t, new(ProtocolSuite))
}

func (s *ProtocolSuite) TestDecodeLogin() {
	msg, err := DecodeClientMessage([]byte(`{"type":"login","name":"Alice","avatar":"cat"}`))
	s.Require().NoError(err)

	login, ok := msg.(Login)
	s.Require().True(ok)
	s.Equal("Alice", login.Name)
	s.Equal("cat", login.Avatar)
}

func (s *ProtocolSuite) TestDecodeJoinPrivate() {
	msg, err := DecodeClientMessage([]byte(`{"type":"join_private","sessionId":"ABC123","name":"Bob","avatar":"dog"}`))
	s.Require().NoError(err)

	join, ok := msg.(JoinPrivate)
	s.Require().True(ok)
	s.Equal("ABC123", join.SessionID)
	s.Equal("Bob", join.Name)
}

func (s *ProtocolSuite) TestDecodeChallengeRequest() {
	msg, err := DecodeClientMessage([]byte(`{"type":"challenge_request","targetId":"id-1"}`))
	s.Require().NoError(err)

	req, ok := msg.(ChallengeRequest)
	s.Require().True(ok)
	s.Equal("id-1", req.TargetID)
}

func (s *ProtocolSuite) TestDecodeMoveKeepsPayloadOpaque() {
	raw := `{"type":"move","sessionId":"s-1","move":{"from":"e2","to":"e4","weird":[1,2,3]}}`
	msg, err := DecodeClientMessage([]byte(raw))
	s.Require().NoError(err)

	move, ok := msg.(Move)
	s.Require().True(ok)
	s.Equal("s-1", move.SessionID)
	s.JSONEq(`{"from":"e2","to":"e4","weird":[1,2,3]}`, string(move.Move))
}

func (s *ProtocolSuite) TestDecodeReturnLobby() {
	msg, err := DecodeClientMessage([]byte(`{"type":"return_lobby"}`))
	s.Require().NoError(err)

	_, ok := msg.(ReturnLobby)
	s.True(ok)
}

func (s *ProtocolSuite) TestDecodeUnknownTypeFails() {
	_, err := DecodeClientMessage([]byte(`{"type":"teleport"}`))
	s.Require().Error(err)
	s.ErrorIs(err, ErrUnknownType)
}

func (s *ProtocolSuite) TestDecodeMalformedFails() {
	_, err := DecodeClientMessage([]byte(`{"type":`))
	s.Error(err)
}

func (s *ProtocolSuite) TestDecodeMissingTypeFails() {
	_, err := DecodeClientMessage([]byte(`{"name":"Alice"}`))
	s.ErrorIs(err, ErrUnknownType)
}

func (s *ProtocolSuite) TestEncodeSetsDiscriminator() {
	data, err := Encode(NewLoginSuccess(model.ClientID("id-1")))
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal("login_success", decoded["type"])
	s.Equal("id-1", decoded["myId"])
}

func (s *ProtocolSuite) TestEncodeGameStart() {
	data, err := Encode(NewGameStart(model.SessionID("s-1"), model.ColorWhite, "Bob"))
	s.Require().NoError(err)

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal("game_start", decoded["type"])
	s.Equal("white", decoded["color"])
	s.Equal("Bob", decoded["opponent"])
}

func (s *ProtocolSuite) TestEncodeMoveRelayIsVerbatim() {
	payload := json.RawMessage(`{"anything":true}`)
	data, err := Encode(NewMoveRelay(payload))
	s.Require().NoError(err)
	s.JSONEq(`{"type":"move","move":{"anything":true}}`, string(data))
}

func (s *ProtocolSuite) TestEncodeEmptyLobbyUpdate() {
	data, err := Encode(NewLobbyUpdate([]LobbyPlayer{}))
	s.Require().NoError(err)
	s.JSONEq(`{"type":"lobby_update","players":[]}`, string(data))
}
