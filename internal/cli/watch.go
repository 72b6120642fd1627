package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/puzzleduel-go/internal/model"
)

func newWatchCmd() *cobra.Command {
	var name string
	var create bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch [code]",
		Short: "Connect to a room and stream events",
		Long: `Connect to the server's websocket endpoint and stream room events.

With a room code argument, joins that room as the guest. With --create,
creates a new room and prints its code so an opponent can join.

Press Ctrl+C to disconnect.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if create == (len(args) == 1) {
				return fmt.Errorf("provide a room code or --create, not both")
			}
			code := ""
			if len(args) == 1 {
				code = args[0]
			}
			return watch(code, name, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&name, "name", "Observer", "Display name to use in the room")
	cmd.Flags().BoolVar(&create, "create", false, "Create a new room instead of joining one")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// watchEvent is an inbound event with a receipt timestamp
type watchEvent struct {
	Time  time.Time       `json:"time"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func watch(code, name string, jsonOutput bool) error {
	url := websocketURL(cfg.ServerURL) + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	var opening model.ServerEvent
	if code == "" {
		opening = model.ServerEvent{
			Event: model.EventCreateRoom,
			Data:  model.CreateRoomPayload{DisplayName: name},
		}
	} else {
		opening = model.ServerEvent{
			Event: model.EventJoinRoom,
			Data:  model.JoinRoomPayload{Code: strings.ToUpper(code), DisplayName: name},
		}
	}
	if err := conn.WriteJSON(opening); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}

	// Close the connection on interrupt; the read loop unblocks with an error
	interrupted := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		close(interrupted)
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Println("Connected. Streaming events (Ctrl+C to disconnect)...")
	}

	for {
		var ev watchEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			select {
			case <-interrupted:
				// A closed connection after Ctrl+C is a clean exit
				return nil
			default:
				return fmt.Errorf("connection lost: %w", err)
			}
		}
		ev.Time = time.Now()

		if jsonOutput {
			line, _ := json.Marshal(ev)
			fmt.Println(string(line))
		} else {
			fmt.Printf("[%s] %s %s\n", ev.Time.Format("15:04:05"), ev.Event, string(ev.Data))
		}
	}
}

// websocketURL converts an http(s) base URL to its ws(s) equivalent
func websocketURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return "ws://" + base
	}
}
