package core

import (
	"context"
	"log/slog"
	"slices"
)

// Reconciler drives a Gateway until the remote board matches a set of specs.
// It evaluates every decision against the snapshot it is given and issues one
// gateway call at a time; the first failure aborts the pass.
type Reconciler struct {
	gw     Gateway
	logger *slog.Logger
}

// NewReconciler creates a Reconciler. A nil logger discards output.
func NewReconciler(gw Gateway, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reconciler{gw: gw, logger: logger}
}

// ReconcileContainers matches container specs to the current containers by
// identifier, reconciles the items of each, and closes every current container
// that no spec retains. Container order is not reconciled.
func (r *Reconciler) ReconcileContainers(ctx context.Context, specs []ContainerSpec, current []Container) error {
	byID := make(map[string]Container, len(current))
	for _, c := range current {
		byID[c.ID] = c
	}
	retained := make(map[string]bool, len(specs))

	for _, spec := range specs {
		name, id := DecodeLabel(spec.Label)

		if id == "" {
			if err := ctx.Err(); err != nil {
				return err
			}
			newID, err := r.gw.CreateContainer(ctx, name)
			if err != nil {
				return remoteErr(OpCreateContainer, "", err)
			}
			r.logger.Info("new container created", "name", name, "id", newID)

			if _, err := r.ReconcileItems(ctx, newID, spec.Items, nil); err != nil {
				return err
			}
			retained[newID] = true
			continue
		}

		old, ok := byID[id]
		if !ok {
			return &UnknownIdentifierError{Kind: "container", ID: id, Label: spec.Label}
		}
		if name != old.Name {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.logger.Info("renaming container", "id", id, "from", old.Name, "to", name)
			if err := r.gw.RenameContainer(ctx, id, name); err != nil {
				return remoteErr(OpRenameContainer, id, err)
			}
		}
		if _, err := r.ReconcileItems(ctx, id, spec.Items, old.Items); err != nil {
			return err
		}
		retained[id] = true
	}

	for _, c := range current {
		if retained[c.ID] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Info("closing container", "id", c.ID, "name", c.Name)
		if err := r.gw.CloseContainer(ctx, c.ID); err != nil {
			return remoteErr(OpCloseContainer, c.ID, err)
		}
	}
	return nil
}

// ReconcileItems brings the items of one container in line with specs and
// returns the resulting order of item identifiers.
//
// Identified specs are matched against current; a removal-marked label closes
// the item. Unidentified specs are created at the bottom of the container.
// Afterwards every identifier whose rank differs from its rank in the
// container as left by those calls is moved to its new 1-based position, one
// call per identifier.
func (r *Reconciler) ReconcileItems(ctx context.Context, containerID string, specs []ItemSpec, current []Item) ([]string, error) {
	byID := make(map[string]Item, len(current))
	order := make([]string, 0, len(current))
	for _, it := range current {
		byID[it.ID] = it
		order = append(order, it.ID)
	}

	result := make([]string, 0, len(specs))
	for _, spec := range specs {
		name, id := DecodeLabel(spec.Label)

		if id == "" {
			if IsRemoval(spec.Label) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			newID, err := r.gw.CreateItem(ctx, name, containerID, spec.Content)
			if err != nil {
				return nil, remoteErr(OpCreateItem, "", err)
			}
			r.logger.Info("creating new item", "name", name, "container", containerID, "id", newID)
			// New items land at the bottom of the container.
			order = append(order, newID)
			result = append(result, newID)
			continue
		}

		old, ok := byID[id]
		if !ok {
			return nil, &UnknownIdentifierError{Kind: "item", ID: id, Label: spec.Label}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if IsRemoval(spec.Label) {
			r.logger.Info("closing item", "id", id, "name", old.Name)
			if err := r.gw.CloseItem(ctx, id); err != nil {
				return nil, remoteErr(OpCloseItem, id, err)
			}
			delete(byID, id)
			order = slices.DeleteFunc(order, func(s string) bool { return s == id })
			continue
		}

		if name != old.Name {
			r.logger.Info("renaming item", "id", id, "from", old.Name, "to", name)
			if err := r.gw.RenameItem(ctx, id, name); err != nil {
				return nil, remoteErr(OpRenameItem, id, err)
			}
		}
		if spec.Content != old.Content {
			r.logger.Debug("updating item content", "id", id)
			if err := r.gw.UpdateItemContent(ctx, id, spec.Content); err != nil {
				return nil, remoteErr(OpUpdateItemContent, id, err)
			}
		}
		result = append(result, id)
	}

	for i, id := range result {
		if slices.Index(order, id) == i {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.logger.Info("moving item", "id", id, "position", i+1)
		if err := r.gw.RepositionItem(ctx, id, i+1); err != nil {
			return nil, remoteErr(OpRepositionItem, id, err)
		}
	}
	return result, nil
}
