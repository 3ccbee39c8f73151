package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync/pkg/core"
	"github.com/aretw0/boardsync/pkg/document"
)

var updateFile string

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"sync"},
	Short:   "Apply a YAML outline to the board",
	Long: `Apply the outline in --file to the board. Calls are issued one at a time
and the first failure stops the pass; calls already made stay applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		specs, err := document.ReadFile(updateFile)
		if err != nil {
			return err
		}
		session, err := openSession(cmd)
		if err != nil {
			return err
		}

		result, err := session.Apply(cmd.Context(), specs)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary(result))
		return nil
	},
}

func summary(r core.PassResult) string {
	if r.Operations() == 0 {
		return "Board is up to date."
	}
	return fmt.Sprintf("Synced %d operation(s): %d list(s) created, %d closed; %d card(s) created, %d renamed, %d updated, %d moved, %d closed.",
		r.Operations(), r.ContainersCreated, r.ContainersClosed,
		r.ItemsCreated, r.ItemsRenamed, r.ItemsUpdated, r.ItemsMoved, r.ItemsClosed)
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "Board outline to apply")
	_ = updateCmd.MarkFlagRequired("file")
}
