package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// PassResult summarizes the calls issued by a successful pass.
type PassResult struct {
	BoardID           string        `json:"board_id"`
	ContainersCreated int           `json:"containers_created"`
	ContainersClosed  int           `json:"containers_closed"`
	ItemsCreated      int           `json:"items_created"`
	ItemsRenamed      int           `json:"items_renamed"`
	ItemsUpdated      int           `json:"items_updated"`
	ItemsMoved        int           `json:"items_moved"`
	ItemsClosed       int           `json:"items_closed"`
	Duration          time.Duration `json:"duration"`
}

// Operations returns the number of mutations issued.
func (r PassResult) Operations() int {
	return r.ContainersCreated + r.ContainersClosed + r.ItemsCreated + r.ItemsRenamed +
		r.ItemsUpdated + r.ItemsMoved + r.ItemsClosed
}

// Service runs reconciliation passes against one remote.
type Service struct {
	remote Remote
	logger *slog.Logger

	mu         sync.RWMutex
	passes     int
	lastPass   *time.Time
	lastResult PassResult
	lastErr    error
}

// NewService creates a new Service. A nil logger discards output.
func NewService(remote Remote, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{remote: remote, logger: logger}
}

// Fetch returns the current snapshot of a board.
func (s *Service) Fetch(ctx context.Context, boardID string) (Board, error) {
	if boardID == "" {
		return Board{}, ErrEmptyBoardID
	}
	board, err := s.remote.Fetch(ctx, boardID)
	if err != nil {
		return Board{}, remoteErr(OpFetch, boardID, err)
	}
	return board, nil
}

// Apply runs one pass: it fetches the board once and issues the calls needed to
// make it match specs. It stops at the first failure, leaving the board
// partially updated; running the pass again converges.
func (s *Service) Apply(ctx context.Context, boardID string, specs []ContainerSpec) (PassResult, error) {
	start := time.Now()
	s.logger.Info("syncing...", "board", boardID)

	board, err := s.Fetch(ctx, boardID)
	if err != nil {
		s.recordPass(PassResult{}, err)
		return PassResult{}, err
	}

	counter := &countingGateway{Gateway: s.remote}
	rec := NewReconciler(counter, s.logger)
	if err := rec.ReconcileContainers(ctx, specs, board.Containers); err != nil {
		s.recordPass(PassResult{}, err)
		return PassResult{}, fmt.Errorf("sync aborted after %d operation(s): %w", counter.result.Operations(), err)
	}

	result := counter.result
	result.BoardID = boardID
	result.Duration = time.Since(start)
	s.recordPass(result, nil)

	s.logger.Info("sync completed", "board", boardID, "operations", result.Operations(), "duration", result.Duration)
	return result, nil
}

// Plan computes the calls Apply would issue without executing any of them.
// A requested container rename is recorded and then reported as ErrUnsupported.
func (s *Service) Plan(ctx context.Context, boardID string, specs []ContainerSpec) (Steps, error) {
	board, err := s.Fetch(ctx, boardID)
	if err != nil {
		return nil, err
	}

	planner := NewPlanner()
	rec := NewReconciler(planner, s.logger.With("dry_run", true))
	if err := rec.ReconcileContainers(ctx, specs, board.Containers); err != nil {
		return planner.Steps(), err
	}
	return planner.Steps(), nil
}

func (s *Service) recordPass(result PassResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.passes++
	s.lastPass = &now
	s.lastResult = result
	s.lastErr = err
}

// countingGateway tallies successful calls of the wrapped gateway.
type countingGateway struct {
	Gateway
	result PassResult
}

func (g *countingGateway) CreateContainer(ctx context.Context, name string) (string, error) {
	id, err := g.Gateway.CreateContainer(ctx, name)
	if err == nil {
		g.result.ContainersCreated++
	}
	return id, err
}

func (g *countingGateway) CloseContainer(ctx context.Context, id string) error {
	err := g.Gateway.CloseContainer(ctx, id)
	if err == nil {
		g.result.ContainersClosed++
	}
	return err
}

func (g *countingGateway) CreateItem(ctx context.Context, name, containerID, content string) (string, error) {
	id, err := g.Gateway.CreateItem(ctx, name, containerID, content)
	if err == nil {
		g.result.ItemsCreated++
	}
	return id, err
}

func (g *countingGateway) CloseItem(ctx context.Context, id string) error {
	err := g.Gateway.CloseItem(ctx, id)
	if err == nil {
		g.result.ItemsClosed++
	}
	return err
}

func (g *countingGateway) RenameItem(ctx context.Context, id, name string) error {
	err := g.Gateway.RenameItem(ctx, id, name)
	if err == nil {
		g.result.ItemsRenamed++
	}
	return err
}

func (g *countingGateway) UpdateItemContent(ctx context.Context, id, content string) error {
	err := g.Gateway.UpdateItemContent(ctx, id, content)
	if err == nil {
		g.result.ItemsUpdated++
	}
	return err
}

func (g *countingGateway) RepositionItem(ctx context.Context, id string, position int) error {
	err := g.Gateway.RepositionItem(ctx, id, position)
	if err == nil {
		g.result.ItemsMoved++
	}
	return err
}
