package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of boardsync",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "boardsync version %s\n", strings.TrimSpace(boardsync.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
