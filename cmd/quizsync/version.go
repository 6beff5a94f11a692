package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of quizsync",
	// Skip configuration loading.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("quizsync version %s\n", strings.TrimSpace(quizsync.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
