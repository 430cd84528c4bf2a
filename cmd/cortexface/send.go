package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	sendAddr    string
	sendTimeout time.Duration
)

var sendCmd = &cobra.Command{
	Use:   "send <command> [args...]",
	Short: "Send one command to a running face",
	Long: `Send a single protocol command over TCP and print the reply line.

Examples:
  cortexface send change_state thinking
  cortexface send change_state speaking intensity=1.5
  cortexface send set_parameter intensity 0.8
  cortexface send get_status
  cortexface send ping
  cortexface send shutdown`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVar(&sendAddr, "addr", "localhost:8888", "command address of the running face")
	sendCmd.Flags().DurationVar(&sendTimeout, "timeout", 3*time.Second, "dial and reply timeout")
}

func runSend(cmd *cobra.Command, args []string) error {
	msg := map[string]any{"command": args[0]}

	switch args[0] {
	case "change_state":
		if len(args) < 2 {
			return fmt.Errorf("change_state needs a state")
		}
		msg["state"] = args[1]
		params := map[string]any{}
		for _, kv := range args[2:] {
			name, value, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("parameter %q is not name=value", kv)
			}
			params[name] = value
		}
		if len(params) > 0 {
			msg["parameters"] = params
		}
	case "set_parameter":
		if len(args) != 3 {
			return fmt.Errorf("set_parameter needs a name and a value")
		}
		msg["name"] = args[1]
		msg["value"] = args[2]
	default:
		// Anything else is sent as-is; the face decides whether it
		// knows the command.
		if len(args) > 1 {
			return fmt.Errorf("%s takes no arguments", args[0])
		}
	}

	conn, err := net.DialTimeout("tcp", sendAddr, sendTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(sendTimeout)); err != nil {
		return err
	}

	line, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
		return err
	}

	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return err
	}
	fmt.Print(reply)
	return nil
}
