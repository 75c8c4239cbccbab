package cli

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"duelrelay/internal/protocol"
)

// serverFrame is a loose decode of any server message; only the fields
// relevant to the frame's type are populated
type serverFrame struct {
	Type      string          `json:"type"`
	MyID      string          `json:"myId"`
	SessionID string          `json:"sessionId"`
	Color     string          `json:"color"`
	Opponent  string          `json:"opponent"`
	FromID    string          `json:"fromId"`
	FromName  string          `json:"fromName"`
	Message   string          `json:"message"`
	Move      json.RawMessage `json:"move"`
	Players   []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Avatar string `json:"avatar"`
		Stats  struct {
			Wins   int `json:"wins"`
			Losses int `json:"losses"`
		} `json:"stats"`
	} `json:"players"`
}

func wsSend(conn *websocket.Conn, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func readFrame(conn *websocket.Conn) (*serverFrame, []byte, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, nil, err
	}
	var frame serverFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, nil, fmt.Errorf("malformed server message: %w", err)
	}
	return &frame, data, nil
}

func newWatchCmd() *cobra.Command {
	var name string
	var avatar string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Log in and stream lobby events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			conn, err := client.Dial(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			// Close the socket on interrupt to unblock the read loop
			go func() {
				<-ctx.Done()
				_ = conn.Close()
			}()

			login := map[string]string{
				"type":   protocol.TypeLogin,
				"name":   name,
				"avatar": avatar,
			}
			if err := wsSend(conn, login); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			for {
				frame, raw, err := readFrame(conn)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					return err
				}
				printFrame(out, frame, raw)
			}
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name to log in with")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar tag to log in with")

	return cmd
}

func printFrame(out *Output, frame *serverFrame, raw []byte) {
	if cfg.Output == "json" {
		fmt.Println(string(raw))
		return
	}

	switch frame.Type {
	case protocol.TypeLoginSuccess:
		out.PrintMessage(fmt.Sprintf("Logged in as %s", frame.MyID))
	case protocol.TypeLobbyUpdate:
		out.PrintMessage(fmt.Sprintf("Lobby (%d players):", len(frame.Players)))
		for _, p := range frame.Players {
			fmt.Printf("  - %s [%s] %dW/%dL (%s)\n",
				p.Name, p.Avatar, p.Stats.Wins, p.Stats.Losses, p.ID)
		}
	case protocol.TypeChallengeReceived:
		out.PrintMessage(fmt.Sprintf("Challenge from %s (%s)", frame.FromName, frame.FromID))
	case protocol.TypeGameStart:
		out.PrintMessage(fmt.Sprintf("Game %s started as %s vs %s",
			frame.SessionID, frame.Color, frame.Opponent))
	case protocol.TypeMove:
		out.PrintMessage(fmt.Sprintf("Move: %s", string(frame.Move)))
	case protocol.TypeOpponentDisconnected:
		out.PrintMessage("Opponent disconnected")
	case protocol.TypeError:
		out.PrintMessage(fmt.Sprintf("Error: %s", frame.Message))
	default:
		fmt.Println(string(raw))
	}
}
