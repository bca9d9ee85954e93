package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"task-board-backend/pkg/core"
	"task-board-backend/pkg/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore is the relational implementation of core.Store. Transactions
// run serializable; the schema's unique indexes on (board_id, position),
// (column_id, position), (board_id, user_id) and username back the
// check-then-act validations when two requests race.
type PostgresStore struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

// NewPostgresStore connects and tunes the pool.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping checks the connection, for health endpoints.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) ext() sqlx.ExtContext {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// InTx runs fn inside a serializable transaction. Nested calls join the
// enclosing transaction.
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx core.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&PostgresStore{db: s.db, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return mapError("commit tx", err)
	}
	return nil
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := s.ext().QueryRowxContext(ctx, query, user.Username, user.Name, user.Password).
		Scan(&user.ID, &user.CreatedAt)
	return mapError("create user", err)
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, name, password_hash, created_at FROM users WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext(), &user, query, id); err != nil {
		return nil, mapError("user not found", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, username, name, password_hash, created_at FROM users WHERE username = $1`
	if err := sqlx.GetContext(ctx, s.ext(), &user, query, username); err != nil {
		return nil, mapError("user not found", err)
	}
	return &user, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	b := psql.Update("users").Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, username, name, password_hash, created_at")
	changed := false
	if patch.Name.IsSet() {
		b = b.Set("name", patch.Name.Value())
		changed = true
	}
	if patch.Password.IsSet() {
		b = b.Set("password_hash", patch.Password.Value())
		changed = true
	}
	if !changed {
		return s.GetUserByID(ctx, id)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	var user models.User
	if err := sqlx.GetContext(ctx, s.ext(), &user, query, args...); err != nil {
		return nil, mapError("update user", err)
	}
	return &user, nil
}

// Boards

func (s *PostgresStore) CreateBoard(ctx context.Context, board *models.Board) error {
	query := `
		INSERT INTO boards (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := s.ext().QueryRowxContext(ctx, query, board.Name, board.OwnerID).
		Scan(&board.ID, &board.CreatedAt)
	return mapError("create board", err)
}

func (s *PostgresStore) GetBoard(ctx context.Context, id int64) (*models.Board, error) {
	var board models.Board
	query := `SELECT id, name, owner_id, created_at FROM boards WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext(), &board, query, id); err != nil {
		return nil, mapError("board not found", err)
	}
	return &board, nil
}

func (s *PostgresStore) ListOwnedBoards(ctx context.Context, userID int64) ([]models.Board, error) {
	boards := []models.Board{}
	query := `SELECT id, name, owner_id, created_at FROM boards WHERE owner_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, s.ext(), &boards, query, userID); err != nil {
		return nil, mapError("list owned boards", err)
	}
	return boards, nil
}

func (s *PostgresStore) ListSharedBoards(ctx context.Context, userID int64) ([]models.Board, error) {
	boards := []models.Board{}
	// Owned boards rank before member-of boards.
	query := `
		SELECT id, name, owner_id, created_at FROM (
			SELECT b.id, b.name, b.owner_id, b.created_at, 0 AS rank
			FROM boards b
			WHERE b.owner_id = $1
			UNION ALL
			SELECT b.id, b.name, b.owner_id, b.created_at, 1 AS rank
			FROM boards b
			JOIN board_members m ON m.board_id = b.id
			WHERE m.user_id = $1
		) ranked
		ORDER BY rank, id
	`
	if err := sqlx.SelectContext(ctx, s.ext(), &boards, query, userID); err != nil {
		return nil, mapError("list shared boards", err)
	}
	return boards, nil
}

func (s *PostgresStore) UpdateBoard(ctx context.Context, id int64, patch models.BoardPatch) (*models.Board, error) {
	if !patch.Name.IsSet() {
		return s.GetBoard(ctx, id)
	}
	var board models.Board
	query := `UPDATE boards SET name = $1 WHERE id = $2 RETURNING id, name, owner_id, created_at`
	if err := sqlx.GetContext(ctx, s.ext(), &board, query, patch.Name.Value(), id); err != nil {
		return nil, mapError("update board", err)
	}
	return &board, nil
}

func (s *PostgresStore) DeleteBoard(ctx context.Context, id int64) error {
	// Columns, tasks, logs and memberships go with it via ON DELETE CASCADE.
	return s.deleteRow(ctx, "delete board", "board not found", `DELETE FROM boards WHERE id = $1`, id)
}

// Memberships

func (s *PostgresStore) HasMembership(ctx context.Context, boardID, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM board_members WHERE board_id = $1 AND user_id = $2)`
	if err := sqlx.GetContext(ctx, s.ext(), &exists, query, boardID, userID); err != nil {
		return false, mapError("check membership", err)
	}
	return exists, nil
}

func (s *PostgresStore) AddMembership(ctx context.Context, boardID, userID int64) error {
	query := `INSERT INTO board_members (board_id, user_id) VALUES ($1, $2)`
	_, err := s.ext().ExecContext(ctx, query, boardID, userID)
	return mapError("add membership", err)
}

func (s *PostgresStore) RemoveMembership(ctx context.Context, boardID, userID int64) (bool, error) {
	res, err := s.ext().ExecContext(ctx, `DELETE FROM board_members WHERE board_id = $1 AND user_id = $2`, boardID, userID)
	if err != nil {
		return false, mapError("remove membership", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, mapError("remove membership", err)
	}
	return affected > 0, nil
}

func (s *PostgresStore) ListMembers(ctx context.Context, boardID int64) ([]models.User, error) {
	users := []models.User{}
	query := `
		SELECT u.id, u.username, u.name, u.password_hash, u.created_at
		FROM users u
		JOIN board_members m ON m.user_id = u.id
		WHERE m.board_id = $1
		ORDER BY m.created_at, u.id
	`
	if err := sqlx.SelectContext(ctx, s.ext(), &users, query, boardID); err != nil {
		return nil, mapError("list members", err)
	}
	return users, nil
}

// Columns

func (s *PostgresStore) CreateColumn(ctx context.Context, column *models.Column) error {
	query := `
		INSERT INTO board_columns (board_id, name, position)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := s.ext().QueryRowxContext(ctx, query, column.BoardID, column.Name, column.Position).
		Scan(&column.ID)
	return mapError("create column", err)
}

func (s *PostgresStore) GetColumn(ctx context.Context, id int64) (*models.Column, error) {
	var column models.Column
	query := `SELECT id, board_id, name, position FROM board_columns WHERE id = $1`
	if err := sqlx.GetContext(ctx, s.ext(), &column, query, id); err != nil {
		return nil, mapError("column not found", err)
	}
	return &column, nil
}

func (s *PostgresStore) ListColumns(ctx context.Context, boardID int64) ([]models.Column, error) {
	columns := []models.Column{}
	query := `SELECT id, board_id, name, position FROM board_columns WHERE board_id = $1 ORDER BY position`
	if err := sqlx.SelectContext(ctx, s.ext(), &columns, query, boardID); err != nil {
		return nil, mapError("list columns", err)
	}
	return columns, nil
}

func (s *PostgresStore) UpdateColumn(ctx context.Context, id int64, patch models.ColumnPatch) (*models.Column, error) {
	b := psql.Update("board_columns").Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, board_id, name, position")
	changed := false
	if patch.Name.IsSet() {
		b = b.Set("name", patch.Name.Value())
		changed = true
	}
	if patch.Position.IsSet() {
		b = b.Set("position", patch.Position.Value())
		changed = true
	}
	if !changed {
		return s.GetColumn(ctx, id)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update column: %w", err)
	}
	var column models.Column
	if err := sqlx.GetContext(ctx, s.ext(), &column, query, args...); err != nil {
		return nil, mapError("update column", err)
	}
	return &column, nil
}

func (s *PostgresStore) DeleteColumn(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "delete column", "column not found", `DELETE FROM board_columns WHERE id = $1`, id)
}

// Tasks

func (s *PostgresStore) CreateTask(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (column_id, name, description, position, assignee_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := s.ext().QueryRowxContext(ctx, query,
		task.ColumnID, task.Name, task.Description, task.Position, task.AssigneeID, task.CreatedBy).
		Scan(&task.ID, &task.CreatedAt)
	return mapError("create task", err)
}

func (s *PostgresStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task models.Task
	query := `
		SELECT id, column_id, name, description, position, assignee_id, created_by, created_at
		FROM tasks WHERE id = $1
	`
	if err := sqlx.GetContext(ctx, s.ext(), &task, query, id); err != nil {
		return nil, mapError("task not found", err)
	}
	return &task, nil
}

func (s *PostgresStore) ListTasks(ctx context.Context, columnID int64, filter models.TaskFilter) ([]models.Task, error) {
	b := psql.Select("id", "column_id", "name", "description", "position", "assignee_id", "created_by", "created_at").
		From("tasks").
		Where(sq.Eq{"column_id": columnID}).
		OrderBy("position")
	if filter.Name != nil {
		b = b.Where(sq.Eq{"name": *filter.Name})
	}
	if filter.Position != nil {
		b = b.Where(sq.Eq{"position": *filter.Position})
	}
	if filter.AssigneeNull {
		b = b.Where(sq.Eq{"assignee_id": nil})
	} else if filter.AssigneeID != nil {
		b = b.Where(sq.Eq{"assignee_id": *filter.AssigneeID})
	}
	if filter.CreatedBy != nil {
		b = b.Where(sq.Eq{"created_by": *filter.CreatedBy})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := []models.Task{}
	if err := sqlx.SelectContext(ctx, s.ext(), &tasks, query, args...); err != nil {
		return nil, mapError("list tasks", err)
	}
	return tasks, nil
}

func (s *PostgresStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	b := psql.Update("tasks").Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, column_id, name, description, position, assignee_id, created_by, created_at")
	changed := false
	if patch.ColumnID.IsSet() {
		b = b.Set("column_id", patch.ColumnID.Value())
		changed = true
	}
	if patch.Position.IsSet() {
		b = b.Set("position", patch.Position.Value())
		changed = true
	}
	if patch.Name.IsSet() {
		b = b.Set("name", patch.Name.Value())
		changed = true
	}
	if patch.Description.IsSet() {
		b = b.Set("description", patch.Description.Value())
		changed = true
	}
	if patch.AssigneeID.IsSet() {
		b = b.Set("assignee_id", patch.AssigneeID.Value())
		changed = true
	}
	if !changed {
		return s.GetTask(ctx, id)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	var task models.Task
	if err := sqlx.GetContext(ctx, s.ext(), &task, query, args...); err != nil {
		return nil, mapError("update task", err)
	}
	return &task, nil
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "delete task", "task not found", `DELETE FROM tasks WHERE id = $1`, id)
}

// Task logs

func (s *PostgresStore) CreateTaskLog(ctx context.Context, entry *models.TaskLogEntry) error {
	query := `
		INSERT INTO task_logs (task_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := s.ext().QueryRowxContext(ctx, query, entry.TaskID, entry.Content).
		Scan(&entry.ID, &entry.CreatedAt)
	return mapError("create task log", err)
}

func (s *PostgresStore) ListTaskLogs(ctx context.Context, taskID int64) ([]models.TaskLogEntry, error) {
	entries := []models.TaskLogEntry{}
	query := `SELECT id, task_id, content, created_at FROM task_logs WHERE task_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, s.ext(), &entries, query, taskID); err != nil {
		return nil, mapError("list task logs", err)
	}
	return entries, nil
}

// deleteRow runs a single-row delete and reports NotFound when nothing
// matched.
func (s *PostgresStore) deleteRow(ctx context.Context, op, missing, query string, id int64) error {
	res, err := s.ext().ExecContext(ctx, query, id)
	if err != nil {
		return mapError(op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if affected == 0 {
		return core.NotFoundf("%s", missing)
	}
	return nil
}
