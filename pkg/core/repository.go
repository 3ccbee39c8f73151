package core

import "context"

// Fetcher returns the current state of a remote board.
// The returned board must only contain open containers and open items, and is
// treated as an immutable snapshot for the whole pass.
type Fetcher interface {
	Fetch(ctx context.Context, boardID string) (Board, error)
}

// Gateway executes mutations against the remote board, one call at a time.
type Gateway interface {
	// CreateContainer creates a list on the board and returns its identifier.
	CreateContainer(ctx context.Context, name string) (string, error)

	// CloseContainer archives a list.
	CloseContainer(ctx context.Context, id string) error

	// RenameContainer is part of the contract but every implementation
	// returns ErrUnsupported.
	RenameContainer(ctx context.Context, id, name string) error

	// CreateItem creates a card at the bottom of a list and returns its
	// identifier. An empty content means the card has no description.
	CreateItem(ctx context.Context, name, containerID, content string) (string, error)

	// CloseItem archives a card.
	CloseItem(ctx context.Context, id string) error

	// RenameItem changes the name of a card.
	RenameItem(ctx context.Context, id, name string) error

	// UpdateItemContent replaces the description of a card.
	UpdateItemContent(ctx context.Context, id, content string) error

	// RepositionItem moves a card to a 1-based position inside its list.
	RepositionItem(ctx context.Context, id string, position int) error
}

// Remote is a board reachable for both reading and writing.
type Remote interface {
	Fetcher
	Gateway
}
