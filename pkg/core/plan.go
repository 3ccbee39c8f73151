package core

import (
	"context"
	"fmt"
	"strings"
)

// Step is one gateway call recorded by a Planner.
type Step struct {
	Op          string
	ID          string
	Args        []string
	Description string
}

// Steps is the ordered list of calls a pass would issue.
type Steps []Step

// String renders a human-readable description of the plan.
func (s Steps) String() string {
	if len(s) == 0 {
		return "Board is up to date, nothing to do.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sync plan: %d operation(s)\n", len(s))
	for i, step := range s {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, step.Description)
	}
	return b.String()
}

// Count returns how many steps use op.
func (s Steps) Count(op string) int {
	n := 0
	for _, step := range s {
		if step.Op == op {
			n++
		}
	}
	return n
}

// Planner is a Gateway that records calls instead of executing them.
// Creations get placeholder identifiers so that later steps can refer to them.
type Planner struct {
	steps      Steps
	containers int
	items      int
}

// NewPlanner creates an empty Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Steps returns the recorded steps.
func (p *Planner) Steps() Steps {
	return p.steps
}

func (p *Planner) record(op, id, desc string, args ...string) {
	p.steps = append(p.steps, Step{Op: op, ID: id, Args: args, Description: desc})
}

func (p *Planner) CreateContainer(_ context.Context, name string) (string, error) {
	p.containers++
	id := fmt.Sprintf("new-container-%d", p.containers)
	p.record(OpCreateContainer, id, fmt.Sprintf("create container %q", name), name)
	return id, nil
}

func (p *Planner) CloseContainer(_ context.Context, id string) error {
	p.record(OpCloseContainer, id, fmt.Sprintf("close container %s", id))
	return nil
}

func (p *Planner) RenameContainer(_ context.Context, id, name string) error {
	p.record(OpRenameContainer, id, fmt.Sprintf("rename container %s to %q (unsupported)", id, name), name)
	return ErrUnsupported
}

func (p *Planner) CreateItem(_ context.Context, name, containerID, content string) (string, error) {
	p.items++
	id := fmt.Sprintf("new-item-%d", p.items)
	desc := fmt.Sprintf("create item %q in container %s", name, containerID)
	if content != "" {
		desc += " with content"
	}
	p.record(OpCreateItem, id, desc, name, containerID, content)
	return id, nil
}

func (p *Planner) CloseItem(_ context.Context, id string) error {
	p.record(OpCloseItem, id, fmt.Sprintf("close item %s", id))
	return nil
}

func (p *Planner) RenameItem(_ context.Context, id, name string) error {
	p.record(OpRenameItem, id, fmt.Sprintf("rename item %s to %q", id, name), name)
	return nil
}

func (p *Planner) UpdateItemContent(_ context.Context, id, content string) error {
	p.record(OpUpdateItemContent, id, fmt.Sprintf("update content of item %s", id), content)
	return nil
}

func (p *Planner) RepositionItem(_ context.Context, id string, position int) error {
	p.record(OpRepositionItem, id, fmt.Sprintf("move item %s to position %d", id, position), fmt.Sprint(position))
	return nil
}

var _ Gateway = (*Planner)(nil)
