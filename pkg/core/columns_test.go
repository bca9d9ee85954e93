package core_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-board-backend/pkg/core"
	"task-board-backend/pkg/models"
)

func TestCreateColumnPositionRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := registerUser(t, svc, "owner")
	board := createBoard(t, svc, owner, "project")
	createColumn(t, svc, owner, board.ID, "todo", 0)

	_, err := svc.CreateColumn(ctx, owner, board.ID, models.ColumnCreateRequest{Name: "dup", Position: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Contains(t, err.Error(), "this position is already taken")

	_, err = svc.CreateColumn(ctx, owner, board.ID, models.ColumnCreateRequest{Name: "neg", Position: -1})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Contains(t, err.Error(), "position must be greater or equal 0")

	// A gap is a valid target; nothing forces contiguity.
	gap, err := svc.CreateColumn(ctx, owner, board.ID, models.ColumnCreateRequest{Name: "later", Position: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, gap.Position)
}

func TestCreateColumnRequiresMembership(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := registerUser(t, svc, "owner")
	collaborator := registerUser(t, svc, "collaborator")
	outsider := registerUser(t, svc, "outsider")
	board := createBoard(t, svc, owner, "project")
	addMember(t, svc, owner, board.ID, collaborator.ID)

	// Collaborators create content; only administration is owner-only.
	_, err := svc.CreateColumn(ctx, collaborator, board.ID, models.ColumnCreateRequest{Name: "doing", Position: 0})
	require.NoError(t, err)

	_, err = svc.CreateColumn(ctx, outsider, board.ID, models.ColumnCreateRequest{Name: "nope", Position: 1})
	assert.ErrorIs(t, err, core.ErrPermissionDenied)
}

func TestListColumnsPositionOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := registerUser(t, svc, "owner")
	board := createBoard(t, svc, owner, "project")
	createColumn(t, svc, owner, board.ID, "done", 2)
	createColumn(t, svc, owner, board.ID, "todo", 0)
	createColumn(t, svc, owner, board.ID, "doing", 1)

	columns, err := svc.ListColumns(ctx, owner, board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 3)
	assert.Equal(t, []string{"todo", "doing", "done"}, []string{columns[0].Name, columns[1].Name, columns[2].Name})
}

func TestUpdateColumnMove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := registerUser(t, svc, "owner")
	board := createBoard(t, svc, owner, "project")
	todo := createColumn(t, svc, owner, board.ID, "todo", 0)
	doing := createColumn(t, svc, owner, board.ID, "doing", 1)

	// Moving onto an occupied slot conflicts.
	_, err := svc.UpdateColumn(ctx, owner, todo.ID, models.ColumnPatch{Position: models.Set(1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConflict)

	// Moving to its own position is a no-op, not a conflict with itself.
	same, err := svc.UpdateColumn(ctx, owner, todo.ID, models.ColumnPatch{Position: models.Set(0)})
	require.NoError(t, err)
	assert.Equal(t, 0, same.Position)

	// A free slot works, and a rename can ride along.
	moved, err := svc.UpdateColumn(ctx, owner, doing.ID, models.ColumnPatch{
		Name:     models.Set("in progress"),
		Position: models.Set(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "in progress", moved.Name)
	assert.Equal(t, 4, moved.Position)
}

func TestDeleteColumnLeavesGap(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := registerUser(t, svc, "owner")
	board := createBoard(t, svc, owner, "project")
	createColumn(t, svc, owner, board.ID, "todo", 0)
	doing := createColumn(t, svc, owner, board.ID, "doing", 1)
	createColumn(t, svc, owner, board.ID, "done", 2)
	task := createTask(t, svc, owner, doing.ID, "wip", 0)

	require.NoError(t, svc.DeleteColumn(ctx, owner, doing.ID))

	// Survivors keep their positions; nothing renumbers.
	columns, err := svc.ListColumns(ctx, owner, board.ID)
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, 0, columns[0].Position)
	assert.Equal(t, 2, columns[1].Position)

	// The column's tasks went with it.
	_, err = svc.GetTask(ctx, owner, task.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestConcurrentColumnCreatesOnePositionWins(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	owner := registerUser(t, svc, "owner")
	board := createBoard(t, svc, owner, "project")

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateColumn(ctx, owner, board.ID, models.ColumnCreateRequest{
				Name:     "racer",
				Position: 0,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, core.ErrConflict)
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent create may claim a position")

	columns, err := svc.ListColumns(ctx, owner, board.ID)
	require.NoError(t, err)
	assert.Len(t, columns, 1)
}
