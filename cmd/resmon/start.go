package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mellanox/resmon/internal/netlink"
	"github.com/mellanox/resmon/internal/resmonctl"
	"github.com/mellanox/resmon/internal/source"
	"github.com/mellanox/resmon/internal/source/hw"
	"github.com/mellanox/resmon/internal/source/mock"
)

func newStartCmd(quiet *bool, verbosity *int) *cobra.Command {
	var sockDir string
	var ringbufPin string
	var ringbufMaxEntries uint32
	var devlinkBus string
	var devlinkDev string
	var devlinkFamily string

	cmd := &cobra.Command{
		Use:   "start hw|mock",
		Short: "Run the resmon daemon (mode: hw or mock)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := args[0]

			var adapter source.Adapter
			var capacity resmonctl.CapacityFunc

			switch mode {
			case "mock":
				adapter = mock.New()
				capacity = func() (uint64, error) { return uint64(mock.Capacity), nil }
			case "hw":
				if ringbufPin == "" {
					return fmt.Errorf("start hw: --ringbuf-pin is required")
				}
				a, err := hw.OpenPinned(ringbufPin, ringbufMaxEntries)
				if err != nil {
					return fmt.Errorf("start hw: %w", err)
				}
				adapter = a
				capacity = func() (uint64, error) {
					return netlink.ResourceCapacity(devlinkFamily, devlinkBus, devlinkDev, "kvd")
				}
			default:
				return fmt.Errorf("unknown mode %q: want hw or mock", mode)
			}

			loop := resmonctl.New(resmonctl.Config{
				SockDir:  sockDir,
				Source:   adapter,
				Capacity: capacity,
				Logger:   resmonctl.Logger{Quiet: *quiet, Verbosity: *verbosity},
			})
			return loop.Run()
		},
	}

	cmd.Flags().StringVar(&sockDir, "sockdir", "/var/run", "directory for the RPC socket")
	cmd.Flags().StringVar(&ringbufPin, "ringbuf-pin", "", "bpffs path of the pinned ring-buffer map (mode hw)")
	cmd.Flags().Uint32Var(&ringbufMaxEntries, "ringbuf-max-entries", 1<<18, "ring buffer map max_entries (mode hw)")
	cmd.Flags().StringVar(&devlinkBus, "devlink-bus", "pci", "devlink bus name to query for capacity (mode hw)")
	cmd.Flags().StringVar(&devlinkDev, "devlink-dev", "", "devlink device name to query for capacity (mode hw)")
	cmd.Flags().StringVar(&devlinkFamily, "devlink-family", "devlink", "generic-netlink family name for the capacity query")
	return cmd
}
