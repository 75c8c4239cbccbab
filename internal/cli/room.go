package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"duelrelay/internal/protocol"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Create or join a private room",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomJoinCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name string
	var avatar string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a private room and wait for an opponent",
		RunE: func(cmd *cobra.Command, args []string) error {
			open := map[string]string{
				"type":   protocol.TypeCreatePrivate,
				"name":   name,
				"avatar": avatar,
			}
			return runRoom(cmd, open)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar tag")

	return cmd
}

func newRoomJoinCmd() *cobra.Command {
	var name string
	var avatar string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a private room by its code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			join := map[string]string{
				"type":      protocol.TypeJoinPrivate,
				"sessionId": args[0],
				"name":      name,
				"avatar":    avatar,
			}
			return runRoom(cmd, join)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar tag")

	return cmd
}

// runRoom drives the private-room flow: send the opening message, then
// print incoming frames. Once the game starts, stdin lines are sent as
// opaque moves.
func runRoom(cmd *cobra.Command, opening any) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := client.Dial(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	if err := wsSend(conn, opening); err != nil {
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

		switch frame.Type {
		case protocol.TypePrivateCreated:
			out.PrintMessage(fmt.Sprintf("Room code: %s", frame.SessionID))
		case protocol.TypeGameStart:
			out.PrintMessage(fmt.Sprintf("Game started as %s vs %s. Type moves, one per line.",
				frame.Color, frame.Opponent))
			go pumpMoves(conn, frame.SessionID)
		case protocol.TypeMove:
			out.PrintMessage(fmt.Sprintf("Opponent: %s", string(frame.Move)))
		case protocol.TypeOpponentDisconnected:
			out.PrintMessage("Opponent disconnected")
			return nil
		case protocol.TypeError:
			return errors.New(frame.Message)
		default:
			printFrame(out, frame, raw)
		}
	}
}

// pumpMoves sends each stdin line as an opaque move payload
func pumpMoves(conn *websocket.Conn, sessionID string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		payload, err := json.Marshal(scanner.Text())
		if err != nil {
			continue
		}
		msg := map[string]any{
			"type":      protocol.TypeMove,
			"sessionId": sessionID,
			"move":      json.RawMessage(payload),
		}
		if err := wsSend(conn, msg); err != nil {
			return
		}
	}
}
