package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cascade",
	Short: "Cascade is a hierarchical state machine engine for simulation loops",
	Long: `Cascade runs machines of root states, substates and computed states
declared in simple YAML files, with deterministic per-tick scheduling.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("file", "f", "machine.yaml", "Machine definition file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable verbose logging")
}
