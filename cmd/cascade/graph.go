package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/cascade/internal/cli"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the state dependency graph",
	Long:  `Compiles the machine definition and outputs a Mermaid diagram (graph TD) of the state dependency graph.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		render, _ := cmd.Flags().GetBool("render")
		watch, _ := cmd.Flags().GetBool("watch")

		if watch {
			if err := cli.RunWatchGraph(opts, render); err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		if err := cli.PrintGraph(opts, render); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("render", false, "Render the diagram in the terminal")
	graphCmd.Flags().BoolP("watch", "w", false, "Re-render whenever the definition changes")
}
