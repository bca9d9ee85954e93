package core_test

import (
	"context"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"task-board-backend/pkg/auth"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/database"
	"task-board-backend/pkg/models"
)

// newTestService wires the core against a fresh in-memory store.
func newTestService(t *testing.T) (*core.Service, *database.MemoryStore) {
	t.Helper()
	store := database.NewMemoryStore()
	logger := log.New()
	logger.SetOutput(io.Discard)
	return core.NewService(store, auth.NewPasswordManager(), logger), store
}

func registerUser(t *testing.T, svc *core.Service, username string) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), models.UserRegisterRequest{
		Username: username,
		Password: "correct-horse-battery",
		Name:     username,
	})
	require.NoError(t, err)
	return user
}

func createBoard(t *testing.T, svc *core.Service, owner *models.User, name string) *models.Board {
	t.Helper()
	board, err := svc.CreateBoard(context.Background(), owner, models.BoardCreateRequest{Name: name})
	require.NoError(t, err)
	return board
}

func createColumn(t *testing.T, svc *core.Service, user *models.User, boardID int64, name string, position int) *models.Column {
	t.Helper()
	column, err := svc.CreateColumn(context.Background(), user, boardID, models.ColumnCreateRequest{
		Name:     name,
		Position: position,
	})
	require.NoError(t, err)
	return column
}

func createTask(t *testing.T, svc *core.Service, user *models.User, columnID int64, name string, position int) *models.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), user, columnID, models.TaskCreateRequest{
		Name:     name,
		Position: position,
	})
	require.NoError(t, err)
	return task
}

func addMember(t *testing.T, svc *core.Service, owner *models.User, boardID int64, userID int64) {
	t.Helper()
	require.NoError(t, svc.AddMember(context.Background(), owner, boardID, userID))
}

func intPtr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }
