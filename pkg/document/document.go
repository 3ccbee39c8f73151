// Package document reads and writes the compact board document.
//
// The document is a YAML sequence of containers. A container is either a bare
// label or a one-key mapping from its label to a sequence of items. An item is
// either a bare label or a one-key mapping from its label to its content:
//
//	- Todo (L1):
//	  - Buy milk (c1)
//	  - Call mom (c2): remind about sunday
//	- Done (L2)
//	- New list:
//	  - first card
//
// JSON is valid YAML, so the same structure written as JSON parses as well.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/containerd/errdefs"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/boardsync/pkg/adapters/fs"
	"github.com/aretw0/boardsync/pkg/core"
)

// ErrInvalidDocument is wrapped by every structural error returned by Parse.
var ErrInvalidDocument = errdefs.ErrInvalidArgument.WithMessage("invalid board document")

// Parse decodes a board document into container specs, in document order.
// Scalars are taken by their literal text, so "- 42" is the label "42".
func Parse(r io.Reader) ([]core.ContainerSpec, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	top := resolve(&root)
	if top.Kind == yaml.DocumentNode && len(top.Content) > 0 {
		top = resolve(top.Content[0])
	}
	if top.Kind != yaml.SequenceNode {
		return nil, invalid(top, "expected a sequence of lists")
	}

	specs := make([]core.ContainerSpec, 0, len(top.Content))
	for _, entry := range top.Content {
		spec, err := parseContainer(resolve(entry))
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// ReadFile parses the document stored at path.
func ReadFile(path string) ([]core.ContainerSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open board document: %w", err)
	}
	defer f.Close()

	specs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return specs, nil
}

func parseContainer(n *yaml.Node) (core.ContainerSpec, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		label, err := labelOf(n)
		if err != nil {
			return core.ContainerSpec{}, err
		}
		return core.ContainerSpec{Label: label}, nil

	case yaml.MappingNode:
		key, value, err := singleEntry(n)
		if err != nil {
			return core.ContainerSpec{}, err
		}
		label, err := labelOf(key)
		if err != nil {
			return core.ContainerSpec{}, err
		}
		spec := core.ContainerSpec{Label: label}
		if isNull(value) {
			return spec, nil
		}
		if value.Kind != yaml.SequenceNode {
			return core.ContainerSpec{}, invalid(value, "list %q must hold a sequence of cards", label)
		}
		for _, entry := range value.Content {
			item, err := parseItem(resolve(entry))
			if err != nil {
				return core.ContainerSpec{}, err
			}
			spec.Items = append(spec.Items, item)
		}
		return spec, nil
	}
	return core.ContainerSpec{}, invalid(n, "expected a list label or a mapping of a list label to cards")
}

func parseItem(n *yaml.Node) (core.ItemSpec, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		label, err := labelOf(n)
		if err != nil {
			return core.ItemSpec{}, err
		}
		return core.BareItem(label), nil

	case yaml.MappingNode:
		key, value, err := singleEntry(n)
		if err != nil {
			return core.ItemSpec{}, err
		}
		label, err := labelOf(key)
		if err != nil {
			return core.ItemSpec{}, err
		}
		if isNull(value) {
			return core.BareItem(label), nil
		}
		if value.Kind != yaml.ScalarNode {
			return core.ItemSpec{}, invalid(value, "content of card %q must be text", label)
		}
		return core.ItemWithContent(label, value.Value), nil
	}
	return core.ItemSpec{}, invalid(n, "expected a card label or a mapping of a card label to its content")
}

func singleEntry(n *yaml.Node) (key, value *yaml.Node, err error) {
	if len(n.Content) != 2 {
		return nil, nil, invalid(n, "expected exactly one key, got %d", len(n.Content)/2)
	}
	return resolve(n.Content[0]), resolve(n.Content[1]), nil
}

func labelOf(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", invalid(n, "label must be text")
	}
	if isNull(n) || n.Value == "" {
		return "", invalid(n, "label cannot be empty")
	}
	return n.Value, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func invalid(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalidDocument, n.Line, fmt.Sprintf(format, args...))
}

// Render encodes a board snapshot in compact form. Every label carries its
// identifier, so the output applied back to the same board issues no calls.
func Render(board core.Board) ([]byte, error) {
	compact := make([]any, 0, len(board.Containers))
	for _, c := range board.Containers {
		label := core.EncodeLabel(c.Name, c.ID)
		if len(c.Items) == 0 {
			compact = append(compact, label)
			continue
		}
		items := make([]any, 0, len(c.Items))
		for _, it := range c.Items {
			itemLabel := core.EncodeLabel(it.Name, it.ID)
			if it.Content == "" {
				items = append(items, itemLabel)
			} else {
				items = append(items, map[string]string{itemLabel: it.Content})
			}
		}
		compact = append(compact, map[string][]any{label: items})
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(compact); err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders board and replaces path atomically.
func WriteFile(path string, board core.Board) error {
	data, err := Render(board)
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(path, data, 0o644)
}

// Sample returns a small board showing every shape the document supports.
func Sample() core.Board {
	return core.Board{
		ID:   "board_id",
		Name: "sample",
		Containers: []core.Container{
			{ID: "list_id", Name: "list", Items: []core.Item{
				{ID: "card1_id", Name: "card1"},
				{ID: "card2_id", Name: "card2", Content: "card2 description"},
			}},
		},
	}
}
