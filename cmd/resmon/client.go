package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mellanox/resmon/internal/rpc"
)

const defaultTimeout = 2 * time.Second

func addSockDirFlag(cmd *cobra.Command) *string {
	sockDir := new(string)
	cmd.Flags().StringVar(sockDir, "sockdir", "/var/run", "directory holding the RPC socket")
	return sockDir
}

func call(sockDir, method string, params any) (rpc.Response, error) {
	serverPath := filepath.Join(sockDir, "resmon.ctl")
	clientPath := filepath.Join(sockDir, fmt.Sprintf("resmon.cli.%d", os.Getpid()))

	cli, err := rpc.Dial(serverPath, clientPath)
	if err != nil {
		return rpc.Response{}, err
	}
	defer cli.Close()

	return cli.Call(method, params, defaultTimeout)
}

func printResult(resp rpc.Response) error {
	if resp.Error != nil {
		return fmt.Errorf("rpc error %d: %s", resp.Error.Code, resp.Error.Message)
	}
	b, err := json.MarshalIndent(resp.Result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func newPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the resmon daemon is alive",
	}
	sockDir := addSockDirFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resp, err := call(*sockDir, "ping", "pong")
		if err != nil {
			return err
		}
		return printResult(resp)
	}
	return cmd
}

func newStopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Tell the resmon daemon to shut down",
	}
	sockDir := addSockDirFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resp, err := call(*sockDir, "stop", nil)
		if err != nil {
			return err
		}
		return printResult(resp)
	}
	return cmd
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print current counter values",
	}
	sockDir := addSockDirFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		resp, err := call(*sockDir, "stats", nil)
		if err != nil {
			return err
		}
		return printResult(resp)
	}
	return cmd
}

func newEmadCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "emad [--format hex|raw] PAYLOAD",
		Short: "Feed one EMAD register payload to the mock decoder",
		Args:  cobra.ExactArgs(1),
	}
	sockDir := addSockDirFlag(cmd)
	cmd.Flags().StringVar(&format, "format", "hex", "payload encoding: hex or raw")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		payload := args[0]

		var hexPayload string
		switch format {
		case "hex":
			hexPayload = payload
		case "raw":
			hexPayload = hex.EncodeToString([]byte(payload))
		default:
			return fmt.Errorf("unknown --format %q: want hex or raw", format)
		}

		resp, err := call(*sockDir, "emad", map[string]string{"payload": hexPayload})
		if err != nil {
			return err
		}
		return printResult(resp)
	}
	return cmd
}
