package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync/pkg/document"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Print a sample outline",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := document.Render(document.Sample())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(mockCmd)
}
