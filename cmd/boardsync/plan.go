package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync/pkg/document"
)

var planFile string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the calls update would make",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := document.ReadFile(planFile)
		if err != nil {
			return err
		}
		session, err := openSession(cmd)
		if err != nil {
			return err
		}

		steps, err := session.Plan(cmd.Context(), specs)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), steps.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVarP(&planFile, "file", "f", "", "Board outline to compare")
	_ = planCmd.MarkFlagRequired("file")
}
