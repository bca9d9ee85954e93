package core

import (
	"context"

	"task-board-backend/pkg/models"
)

// Store is the persistence interface the core dictates. Implementations must
// translate their own failures into the core error taxonomy: lookups that
// resolve nothing return ErrNotFound, uniqueness violations return
// ErrConflict.
//
// InTx runs fn against a transactional view of the store and commits only if
// fn returns nil. The position-uniqueness and membership existence checks are
// check-then-act races, so implementations must give InTx
// serializable-or-stronger isolation, or back the checks with uniqueness
// constraints, so that two concurrent writers cannot both succeed. Nested
// calls join the enclosing transaction.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)

	// Boards
	CreateBoard(ctx context.Context, board *models.Board) error
	GetBoard(ctx context.Context, id int64) (*models.Board, error)
	// ListOwnedBoards returns boards owned by the user.
	ListOwnedBoards(ctx context.Context, userID int64) ([]models.Board, error)
	// ListSharedBoards returns owned plus member-of boards, owned entries
	// first.
	ListSharedBoards(ctx context.Context, userID int64) ([]models.Board, error)
	UpdateBoard(ctx context.Context, id int64, patch models.BoardPatch) (*models.Board, error)
	// DeleteBoard cascades to the board's columns, tasks and memberships.
	DeleteBoard(ctx context.Context, id int64) error

	// Memberships. The owner is never stored as a row.
	HasMembership(ctx context.Context, boardID, userID int64) (bool, error)
	AddMembership(ctx context.Context, boardID, userID int64) error
	// RemoveMembership reports whether a row was actually removed.
	RemoveMembership(ctx context.Context, boardID, userID int64) (bool, error)
	// ListMembers returns the users holding membership rows, oldest grant
	// first. It does not include the owner.
	ListMembers(ctx context.Context, boardID int64) ([]models.User, error)

	// Columns
	CreateColumn(ctx context.Context, column *models.Column) error
	GetColumn(ctx context.Context, id int64) (*models.Column, error)
	ListColumns(ctx context.Context, boardID int64) ([]models.Column, error)
	UpdateColumn(ctx context.Context, id int64, patch models.ColumnPatch) (*models.Column, error)
	// DeleteColumn cascades to the column's tasks.
	DeleteColumn(ctx context.Context, id int64) error

	// Tasks
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)
	ListTasks(ctx context.Context, columnID int64, filter models.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	// Task logs, append-only.
	CreateTaskLog(ctx context.Context, entry *models.TaskLogEntry) error
	ListTaskLogs(ctx context.Context, taskID int64) ([]models.TaskLogEntry, error)
}
