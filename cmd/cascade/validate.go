package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/cascade/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the machine definition for consistency",
	Long:  `Parses and compiles the definition, reporting unknown kinds, missing parents and duplicate states.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := optionsFromFlags(cmd, args)
		if _, _, err := cli.LoadEngine(opts); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Machine is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
