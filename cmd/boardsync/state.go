package main

import (
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/boardsync/pkg/core"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the board as a Mermaid diagram",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(cmd)
		if err != nil {
			return err
		}
		b, err := session.Fetch(cmd.Context())
		if err != nil {
			return err
		}

		config := introspection.DefaultDiagramConfig()
		config.SecondaryID = "board"
		config.SecondaryLabel = "Board Topology"
		fmt.Fprintln(cmd.OutOrStdout(), introspection.TreeDiagram(buildBoardTree(b), config))
		return nil
	},
}

type boardNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []boardNode
}

// buildBoardTree maps a snapshot onto the node shape introspection renders.
// Statuses must be classes of introspection.DefaultStyles().
func buildBoardTree(b core.Board) boardNode {
	root := boardNode{
		Name:   b.ID,
		Status: "running",
		Metadata: map[string]string{
			"type":  "container",
			"lists": strconv.Itoa(len(b.Containers)),
		},
	}
	for _, c := range b.Containers {
		list := boardNode{
			Name:   core.EncodeLabel(c.Name, c.ID),
			Status: "running",
			Metadata: map[string]string{
				"type":  "container",
				"cards": strconv.Itoa(len(c.Items)),
			},
		}
		if len(c.Items) == 0 {
			list.Status = "suspended"
		}
		for _, it := range c.Items {
			list.Children = append(list.Children, boardNode{
				Name:     core.EncodeLabel(it.Name, it.ID),
				Status:   "finished",
				Metadata: map[string]string{"type": "process"},
			})
		}
		root.Children = append(root.Children, list)
	}
	return root
}

func init() {
	rootCmd.AddCommand(stateCmd)
}
