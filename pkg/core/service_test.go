package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/containerd/errdefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/boardsync/pkg/adapters/memory"
	"github.com/aretw0/boardsync/pkg/core"
)

func seededBoard() *memory.Remote {
	return memory.New("b1",
		core.Container{ID: "L1", Name: "Todo", Items: []core.Item{
			{ID: "c1", Name: "Buy milk"},
			{ID: "c2", Name: "Laundry", Content: "whites only"},
		}},
		core.Container{ID: "L2", Name: "Done"},
	)
}

func TestService_Fetch(t *testing.T) {
	service := core.NewService(seededBoard(), nil)

	board, err := service.Fetch(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, board.Containers, 2)
	assert.Equal(t, "whites only", board.Containers[0].Items[1].Content)

	_, err = service.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrEmptyBoardID)
	assert.True(t, errdefs.IsInvalidArgument(err))

	_, err = service.Fetch(context.Background(), "other")
	assert.True(t, errdefs.IsNotFound(err))
	var remoteErr *core.RemoteCallError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, core.OpFetch, remoteErr.Op)
}

func TestService_Apply(t *testing.T) {
	remote := seededBoard()
	service := core.NewService(remote, nil)

	result, err := service.Apply(context.Background(), "b1", []core.ContainerSpec{
		{Label: "Todo (L1)", Items: []core.ItemSpec{
			core.BareItem("Laundry (c2)"),
			core.BareItem("-Buy milk (c1)"),
			core.BareItem("Call mom"),
		}},
		{Label: "Someday"},
	})
	require.NoError(t, err)

	assert.Equal(t, "b1", result.BoardID)
	assert.Equal(t, 1, result.ItemsClosed)
	assert.Equal(t, 1, result.ItemsUpdated)
	assert.Equal(t, 1, result.ItemsCreated)
	assert.Equal(t, 1, result.ContainersCreated)
	assert.Equal(t, 1, result.ContainersClosed)
	assert.Zero(t, result.ItemsMoved)
	assert.Equal(t, 5, result.Operations())

	board := remote.Board()
	require.Len(t, board.Containers, 2)
	assert.Equal(t, "Todo", board.Containers[0].Name)
	assert.Equal(t, "Someday", board.Containers[1].Name)
	require.Len(t, board.Containers[0].Items, 2)
	assert.Equal(t, "Laundry", board.Containers[0].Items[0].Name)
	assert.Empty(t, board.Containers[0].Items[0].Content)
	assert.Equal(t, "Call mom", board.Containers[0].Items[1].Name)
}

func TestService_Apply_Converges(t *testing.T) {
	remote := seededBoard()
	service := core.NewService(remote, nil)
	ctx := context.Background()

	board, err := service.Fetch(ctx, "b1")
	require.NoError(t, err)

	// Feeding the fetched board back as specs issues no calls.
	result, err := service.Apply(ctx, "b1", specsFromBoard(board))
	require.NoError(t, err)
	assert.Zero(t, result.Operations())
	assert.Empty(t, remote.Calls())
}

func TestService_Apply_Failure(t *testing.T) {
	remote := seededBoard()
	remote.FailOn(core.OpCloseContainer, errdefs.ErrUnavailable.WithMessage("service down"))
	service := core.NewService(remote, nil)

	_, err := service.Apply(context.Background(), "b1", []core.ContainerSpec{
		{Label: "Todo (L1)", Items: []core.ItemSpec{
			core.BareItem("Buy milk (c1)"),
			core.ItemWithContent("Laundry (c2)", "whites only"),
			core.BareItem("New"),
		}},
	})
	require.Error(t, err)
	assert.True(t, errdefs.IsUnavailable(err))
	assert.Contains(t, err.Error(), "sync aborted after 1 operation(s)")

	state := service.State().(core.ServiceState)
	assert.Equal(t, 1, state.Passes)
	assert.NotEmpty(t, state.LastError)
	assert.NotNil(t, state.LastPass)
}

func TestService_Apply_FetchFailure(t *testing.T) {
	remote := seededBoard()
	boom := errors.New("connection refused")
	remote.FailOn(core.OpFetch, boom)
	service := core.NewService(remote, nil)

	_, err := service.Apply(context.Background(), "b1", nil)
	require.ErrorIs(t, err, boom)
	assert.Empty(t, remote.Calls())
}

func TestService_Plan(t *testing.T) {
	remote := seededBoard()
	service := core.NewService(remote, nil)

	steps, err := service.Plan(context.Background(), "b1", []core.ContainerSpec{
		{Label: "Todo (L1)", Items: []core.ItemSpec{
			core.BareItem("New first"),
			core.BareItem("Buy milk (c1)"),
			core.ItemWithContent("Laundry (c2)", "whites only"),
		}},
		{Label: "Done (L2)"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, steps.Count(core.OpCreateItem))
	assert.Equal(t, 3, steps.Count(core.OpRepositionItem))
	assert.Empty(t, remote.Calls(), "planning must not touch the board")
	assert.Len(t, remote.Board().Containers[0].Items, 2)
}

func TestService_Plan_RenameContainer(t *testing.T) {
	service := core.NewService(seededBoard(), nil)

	steps, err := service.Plan(context.Background(), "b1", []core.ContainerSpec{
		{Label: "Doing (L1)"},
	})
	require.ErrorIs(t, err, core.ErrUnsupported)
	require.Len(t, steps, 1)
	assert.Equal(t, core.OpRenameContainer, steps[0].Op)
}

func TestService_State(t *testing.T) {
	service := core.NewService(seededBoard(), nil)
	assert.Equal(t, "sync-service", service.ComponentType())

	state := service.State().(core.ServiceState)
	assert.Equal(t, "memory", state.RemoteType)
	assert.Zero(t, state.Passes)
	assert.Nil(t, state.LastPass)

	_, err := service.Apply(context.Background(), "b1", specsFromBoard(mustFetch(t, service)))
	require.NoError(t, err)

	state = service.State().(core.ServiceState)
	assert.Equal(t, 1, state.Passes)
	assert.Empty(t, state.LastError)
	assert.Equal(t, "b1", state.LastResult.BoardID)
}

func mustFetch(t *testing.T, service *core.Service) core.Board {
	t.Helper()
	board, err := service.Fetch(context.Background(), "b1")
	require.NoError(t, err)
	return board
}

func specsFromBoard(board core.Board) []core.ContainerSpec {
	specs := make([]core.ContainerSpec, 0, len(board.Containers))
	for _, c := range board.Containers {
		spec := core.ContainerSpec{Label: core.EncodeLabel(c.Name, c.ID)}
		for _, it := range c.Items {
			label := core.EncodeLabel(it.Name, it.ID)
			if it.Content == "" {
				spec.Items = append(spec.Items, core.BareItem(label))
			} else {
				spec.Items = append(spec.Items, core.ItemWithContent(label, it.Content))
			}
		}
		specs = append(specs, spec)
	}
	return specs
}
