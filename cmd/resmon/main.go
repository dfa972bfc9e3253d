package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	var quiet bool
	var verbosity int
	var showVersion bool

	rootCmd := &cobra.Command{
		Use:           "resmon",
		Short:         "Monitor Spectrum ASIC resource-table occupancy from EMAD register traffic",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Println("resmon", version)
				return nil
			}
			return cmd.Help()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-fatal log output")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "print the version and exit")

	rootCmd.AddCommand(
		newStartCmd(&quiet, &verbosity),
		newPingCmd(),
		newStopCmd(),
		newStatsCmd(),
		newEmadCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
