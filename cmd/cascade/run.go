package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/cascade/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive machine session",
	Long: `Loads the machine definition and starts an interactive session where
requests are queued and applied tick by tick.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.Parallelism, _ = cmd.Flags().GetInt("parallelism")

		if err := cli.RunSession(opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("redis", "", "Redis address for snapshot persistence (host:port)")
	runCmd.Flags().Int("parallelism", 1, "Concurrent record updates within one tick")

	// Make 'run' the default if no command is provided.
	rootCmd.Run = runCmd.Run
}

func optionsFromFlags(cmd *cobra.Command, args []string) cli.RunOptions {
	file, _ := cmd.Flags().GetString("file")
	if !cmd.Flags().Changed("file") && len(args) > 0 {
		file = args[0]
	}
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.RunOptions{FilePath: file, Debug: debug}
}
