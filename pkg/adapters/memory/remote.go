// Package memory provides an in-memory board implementing core.Remote.
//
// It applies mutations the way the REST API does (new cards go to the bottom,
// closed entities disappear from fetches) and records every call, which makes
// it the reference double for reconciliation tests and local demos.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/containerd/errdefs"

	"github.com/aretw0/boardsync/pkg/core"
)

// Call is one recorded gateway invocation.
type Call struct {
	Op   string
	Args []string
}

func (c Call) String() string {
	return fmt.Sprintf("%s(%v)", c.Op, c.Args)
}

// Remote is a thread-safe in-memory board.
type Remote struct {
	mu         sync.Mutex
	boardID    string
	name       string
	containers []core.Container
	nextList   int
	nextCard   int
	calls      []Call
	failures   map[string]error
}

// New creates a board seeded with containers. The seed is copied.
func New(boardID string, containers ...core.Container) *Remote {
	r := &Remote{
		boardID:  boardID,
		name:     "board",
		failures: make(map[string]error),
	}
	r.containers = cloneContainers(containers)
	return r
}

// FailOn makes the next call of op return err. Fetch can be failed with core.OpFetch.
func (r *Remote) FailOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op] = err
}

// Calls returns the mutations recorded so far, in order. Fetches are not recorded.
func (r *Remote) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// ResetCalls clears the call log.
func (r *Remote) ResetCalls() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// Board returns a copy of the current board.
func (r *Remote) Board() core.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *Remote) snapshot() core.Board {
	return core.Board{ID: r.boardID, Name: r.name, Containers: cloneContainers(r.containers)}
}

// begin records a mutation and returns an injected failure, if any.
// Caller must hold r.mu.
func (r *Remote) begin(op string, args ...string) error {
	if op != core.OpFetch {
		r.calls = append(r.calls, Call{Op: op, Args: args})
	}
	if err, ok := r.failures[op]; ok {
		delete(r.failures, op)
		return err
	}
	return nil
}

func (r *Remote) Fetch(ctx context.Context, boardID string) (core.Board, error) {
	if err := ctx.Err(); err != nil {
		return core.Board{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpFetch, boardID); err != nil {
		return core.Board{}, err
	}
	if boardID != r.boardID {
		return core.Board{}, errdefs.ErrNotFound.WithMessage("board not found: " + boardID)
	}
	return r.snapshot(), nil
}

func (r *Remote) CreateContainer(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpCreateContainer, name); err != nil {
		return "", err
	}
	r.nextList++
	id := "list-" + strconv.Itoa(r.nextList)
	r.containers = append(r.containers, core.Container{ID: id, Name: name})
	return id, nil
}

func (r *Remote) CloseContainer(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpCloseContainer, id); err != nil {
		return err
	}
	i := r.containerIndex(id)
	if i < 0 {
		return errdefs.ErrNotFound.WithMessage("list not found: " + id)
	}
	r.containers = slices.Delete(r.containers, i, i+1)
	return nil
}

func (r *Remote) RenameContainer(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpRenameContainer, id, name); err != nil {
		return err
	}
	return core.ErrUnsupported
}

func (r *Remote) CreateItem(ctx context.Context, name, containerID, content string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpCreateItem, name, containerID, content); err != nil {
		return "", err
	}
	i := r.containerIndex(containerID)
	if i < 0 {
		return "", errdefs.ErrNotFound.WithMessage("list not found: " + containerID)
	}
	r.nextCard++
	id := "card-" + strconv.Itoa(r.nextCard)
	r.containers[i].Items = append(r.containers[i].Items, core.Item{ID: id, Name: name, Content: content})
	return id, nil
}

func (r *Remote) CloseItem(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpCloseItem, id); err != nil {
		return err
	}
	ci, ii := r.itemIndex(id)
	if ci < 0 {
		return errdefs.ErrNotFound.WithMessage("card not found: " + id)
	}
	r.containers[ci].Items = slices.Delete(r.containers[ci].Items, ii, ii+1)
	return nil
}

func (r *Remote) RenameItem(ctx context.Context, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpRenameItem, id, name); err != nil {
		return err
	}
	ci, ii := r.itemIndex(id)
	if ci < 0 {
		return errdefs.ErrNotFound.WithMessage("card not found: " + id)
	}
	r.containers[ci].Items[ii].Name = name
	return nil
}

func (r *Remote) UpdateItemContent(ctx context.Context, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpUpdateItemContent, id, content); err != nil {
		return err
	}
	ci, ii := r.itemIndex(id)
	if ci < 0 {
		return errdefs.ErrNotFound.WithMessage("card not found: " + id)
	}
	r.containers[ci].Items[ii].Content = content
	return nil
}

// RepositionItem moves the card to the 1-based rank, clamped to the list bounds.
func (r *Remote) RepositionItem(ctx context.Context, id string, position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.begin(core.OpRepositionItem, id, strconv.Itoa(position)); err != nil {
		return err
	}
	ci, ii := r.itemIndex(id)
	if ci < 0 {
		return errdefs.ErrNotFound.WithMessage("card not found: " + id)
	}
	items := r.containers[ci].Items
	card := items[ii]
	items = slices.Delete(items, ii, ii+1)
	target := min(max(position-1, 0), len(items))
	r.containers[ci].Items = slices.Insert(items, target, card)
	return nil
}

func (r *Remote) containerIndex(id string) int {
	return slices.IndexFunc(r.containers, func(c core.Container) bool { return c.ID == id })
}

func (r *Remote) itemIndex(id string) (int, int) {
	for ci, c := range r.containers {
		if ii := slices.IndexFunc(c.Items, func(it core.Item) bool { return it.ID == id }); ii >= 0 {
			return ci, ii
		}
	}
	return -1, -1
}

func cloneContainers(in []core.Container) []core.Container {
	out := make([]core.Container, len(in))
	for i, c := range in {
		out[i] = core.Container{ID: c.ID, Name: c.Name, Items: slices.Clone(c.Items)}
	}
	return out
}

// ComponentType implements introspection.Component.
func (r *Remote) ComponentType() string {
	return "memory"
}

var _ core.Remote = (*Remote)(nil)
