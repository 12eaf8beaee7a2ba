package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/cascade"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of cascade",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cascade version %s\n", strings.TrimSpace(cascade.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
