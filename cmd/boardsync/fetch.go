package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync/pkg/document"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print the board as a YAML outline",
	Long: `Fetch the open lists and cards of the board and print them in compact form.
Every entry carries its identifier, so the output can be edited and applied
back with update.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}

		b, err := session.Fetch(cmd.Context())
		if err != nil {
			return err
		}

		if fetchOutput != "" {
			if err := document.WriteFile(fetchOutput, b); err != nil {
				return err
			}
			slog.Info("board written", "path", fetchOutput, "lists", len(b.Containers))
			return nil
		}

		data, err := document.Render(b)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "Write the outline to a file instead of stdout")
}
