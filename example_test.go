package boardsync_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/boardsync"
	"github.com/aretw0/boardsync/pkg/adapters/memory"
	"github.com/aretw0/boardsync/pkg/core"
	"github.com/aretw0/boardsync/pkg/document"
)

// Example_apply renames one card, adds another and closes a list on an
// in-memory board.
func Example_apply() {
	remote := memory.New("b1",
		core.Container{ID: "L1", Name: "Todo", Items: []core.Item{
			{ID: "c1", Name: "Buy milk"},
		}},
		core.Container{ID: "L2", Name: "Someday"},
	)

	session, err := boardsync.Open(
		boardsync.WithRemote(remote),
		boardsync.WithBoard("b1"),
		boardsync.WithEnv(func(string) (string, bool) { return "", false }),
		boardsync.WithConfigFile("testdata/none"),
	)
	if err != nil {
		log.Fatal(err)
	}

	specs, err := document.Parse(strings.NewReader(`
- Todo (L1):
  - Buy oat milk (c1)
  - Call mom
`))
	if err != nil {
		log.Fatal(err)
	}

	result, err := session.Apply(context.Background(), specs)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("operations: %d\n", result.Operations())

	for _, c := range remote.Board().Containers {
		fmt.Println(c.Name)
		for _, it := range c.Items {
			fmt.Printf("  %s\n", it.Name)
		}
	}
	// Output:
	// operations: 3
	// Todo
	//   Buy oat milk
	//   Call mom
}
