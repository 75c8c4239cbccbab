package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"duelrelay/internal/api"
	"duelrelay/internal/factory"
	"duelrelay/internal/testutil"
	"duelrelay/internal/transport/ws"
)

type frame struct {
	Type      string          `json:"type"`
	MyID      string          `json:"myId"`
	Message   string          `json:"message"`
	SessionID string          `json:"sessionId"`
	Color     string          `json:"color"`
	Opponent  string          `json:"opponent"`
	FromID    string          `json:"fromId"`
	FromName  string          `json:"fromName"`
	Move      json.RawMessage `json:"move"`
	Players   []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Stats struct {
			Wins   int `json:"wins"`
			Losses int `json:"losses"`
		} `json:"stats"`
	} `json:"players"`
}

type RelaySuite struct {
	suite.Suite
	server *httptest.Server
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger})
	s.Require().NoError(err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		WSHandler:   ws.NewHandler(app.Dispatcher, logger),
		StatsLedger: app.StatsLedger,
	})
	s.server = httptest.NewServer(router)
}

func (s *RelaySuite) TearDownTest() {
	s.server.Close()
}

func (s *RelaySuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	return conn
}

func (s *RelaySuite) send(conn *websocket.Conn, raw string) {
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(raw)))
}

// readUntil reads frames until one of the wanted type arrives,
// discarding everything else
func (s *RelaySuite) readUntil(conn *websocket.Conn, msgType string) frame {
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		s.Require().NoError(err)

		var f frame
		s.Require().NoError(json.Unmarshal(data, &f))
		if f.Type == msgType {
			return f
		}
	}
}

// login connects a websocket client and enters the lobby
func (s *RelaySuite) login(name string) (*websocket.Conn, string) {
	conn := s.dial()
	s.send(conn, fmt.Sprintf(`{"type":"login","name":%q,"avatar":"default"}`, name))
	ack := s.readUntil(conn, "login_success")
	s.Require().NotEmpty(ack.MyID)
	return conn, ack.MyID
}

type statsResponse struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

func (s *RelaySuite) getStats(name string) (int, statsResponse) {
	resp, err := http.Get(s.server.URL + "/api/v1/stats/" + name)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()

	var stats statsResponse
	if resp.StatusCode == http.StatusOK {
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(&stats))
	}
	return resp.StatusCode, stats
}

func (s *RelaySuite) TestChallengeGameLifecycle() {
	alice, aliceID := s.login("Alice")
	defer func() { _ = alice.Close() }()

	bob, bobID := s.login("Bob")
	defer func() { _ = bob.Close() }()

	// Alice sees Bob arrive
	roster := s.readUntil(alice, "lobby_update")
	for len(roster.Players) < 2 {
		roster = s.readUntil(alice, "lobby_update")
	}

	// Challenge and accept
	s.send(alice, fmt.Sprintf(`{"type":"challenge_request","targetId":%q}`, bobID))
	challenge := s.readUntil(bob, "challenge_received")
	s.Equal(aliceID, challenge.FromID)
	s.Equal("Alice", challenge.FromName)

	s.send(bob, fmt.Sprintf(`{"type":"challenge_accept","targetId":%q}`, challenge.FromID))

	aliceStart := s.readUntil(alice, "game_start")
	bobStart := s.readUntil(bob, "game_start")
	s.Equal(aliceStart.SessionID, bobStart.SessionID)
	s.NotEqual(aliceStart.Color, bobStart.Color)
	s.Equal("Bob", aliceStart.Opponent)
	s.Equal("Alice", bobStart.Opponent)

	// Moves relay opaquely in both directions
	s.send(alice, fmt.Sprintf(
		`{"type":"move","sessionId":%q,"move":{"from":"e2","to":"e4"}}`, aliceStart.SessionID))
	relayed := s.readUntil(bob, "move")
	s.JSONEq(`{"from":"e2","to":"e4"}`, string(relayed.Move))

	s.send(bob, fmt.Sprintf(
		`{"type":"move","sessionId":%q,"move":{"resign":true}}`, bobStart.SessionID))
	relayed = s.readUntil(alice, "move")
	s.JSONEq(`{"resign":true}`, string(relayed.Move))

	// Alice wins; stats are queryable over HTTP
	s.send(alice, `{"type":"game_over","winnerName":"Alice","loserName":"Bob"}`)
	s.send(alice, `{"type":"return_lobby"}`)
	s.readUntil(alice, "lobby_update")

	status, stats := s.getStats("Alice")
	s.Equal(http.StatusOK, status)
	s.Equal(1, stats.Wins)
	s.Equal(0, stats.Losses)

	status, stats = s.getStats("Bob")
	s.Equal(http.StatusOK, status)
	s.Equal(1, stats.Losses)
}

func (s *RelaySuite) TestPrivateRoomLifecycle() {
	creator := s.dial()
	defer func() { _ = creator.Close() }()

	s.send(creator, `{"type":"create_private","name":"Alice","avatar":"cat"}`)
	created := s.readUntil(creator, "private_created")
	s.Require().Len(created.SessionID, 6)

	joiner := s.dial()
	defer func() { _ = joiner.Close() }()

	s.send(joiner, fmt.Sprintf(
		`{"type":"join_private","sessionId":%q,"name":"Bob","avatar":"dog"}`, created.SessionID))

	creatorStart := s.readUntil(creator, "game_start")
	joinerStart := s.readUntil(joiner, "game_start")
	s.Equal(created.SessionID, creatorStart.SessionID)
	s.NotEqual(creatorStart.Color, joinerStart.Color)
}

func (s *RelaySuite) TestOpponentDisconnectNotice() {
	alice, _ := s.login("Alice")
	defer func() { _ = alice.Close() }()
	bob, bobID := s.login("Bob")

	s.send(alice, fmt.Sprintf(`{"type":"challenge_request","targetId":%q}`, bobID))
	challenge := s.readUntil(bob, "challenge_received")
	s.send(bob, fmt.Sprintf(`{"type":"challenge_accept","targetId":%q}`, challenge.FromID))
	s.readUntil(alice, "game_start")
	s.readUntil(bob, "game_start")

	s.Require().NoError(bob.Close())

	notice := s.readUntil(alice, "opponent_disconnected")
	s.Equal("opponent_disconnected", notice.Type)

	// Alice is back in the lobby view
	roster := s.readUntil(alice, "lobby_update")
	s.Require().Len(roster.Players, 1)
	s.Equal("Alice", roster.Players[0].Name)
}

func (s *RelaySuite) TestJoinUnknownRoomRejected() {
	conn := s.dial()
	defer func() { _ = conn.Close() }()

	s.send(conn, `{"type":"join_private","sessionId":"ZZZZZZ","name":"Bob","avatar":"dog"}`)

	errFrame := s.readUntil(conn, "error")
	s.Equal("Room not found or full", errFrame.Message)
}

func (s *RelaySuite) TestStatsUnknownName() {
	status, _ := s.getStats("Nobody")
	s.Equal(http.StatusNotFound, status)
}
