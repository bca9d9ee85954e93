package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"task-board-backend/pkg/core"
	"task-board-backend/pkg/models"
)

// MemoryStore is an in-memory implementation of core.Store, used for local
// development mode and tests. A single mutex serializes transactions, which
// trivially gives InTx the isolation the core demands; rollback restores a
// snapshot taken at transaction start, so a failed transaction leaves no
// partial writes.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memData
	inTx bool
}

type memData struct {
	users   map[int64]models.User
	boards  map[int64]models.Board
	members map[int64]map[int64]time.Time // board id -> user id -> granted at
	columns map[int64]models.Column
	tasks   map[int64]models.Task
	logs    map[int64]models.TaskLogEntry
	lastID  int64
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		data: &memData{
			users:   make(map[int64]models.User),
			boards:  make(map[int64]models.Board),
			members: make(map[int64]map[int64]time.Time),
			columns: make(map[int64]models.Column),
			tasks:   make(map[int64]models.Task),
			logs:    make(map[int64]models.TaskLogEntry),
		},
	}
}

func (d *memData) clone() *memData {
	c := &memData{
		users:   make(map[int64]models.User, len(d.users)),
		boards:  make(map[int64]models.Board, len(d.boards)),
		members: make(map[int64]map[int64]time.Time, len(d.members)),
		columns: make(map[int64]models.Column, len(d.columns)),
		tasks:   make(map[int64]models.Task, len(d.tasks)),
		logs:    make(map[int64]models.TaskLogEntry, len(d.logs)),
		lastID:  d.lastID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.boards {
		c.boards[k] = v
	}
	for k, v := range d.members {
		inner := make(map[int64]time.Time, len(v))
		for uk, uv := range v {
			inner[uk] = uv
		}
		c.members[k] = inner
	}
	for k, v := range d.columns {
		c.columns[k] = v
	}
	for k, v := range d.tasks {
		c.tasks[k] = v
	}
	for k, v := range d.logs {
		c.logs[k] = v
	}
	return c
}

// InTx serializes the transaction behind the store mutex. Nested calls join
// the enclosing transaction.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx core.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.data.clone()
	tx := &MemoryStore{mu: s.mu, data: s.data, inTx: true}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// lock acquires the store mutex for single operations outside a transaction.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (d *memData) nextID() int64 {
	d.lastID++
	return d.lastID
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	defer s.lock()()
	for _, u := range s.data.users {
		if u.Username == user.Username {
			return core.Conflictf("create user: duplicate value for users_username_key")
		}
	}
	user.ID = s.data.nextID()
	user.CreatedAt = time.Now().UTC()
	s.data.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	defer s.lock()()
	user, ok := s.data.users[id]
	if !ok {
		return nil, core.NotFoundf("user not found")
	}
	return &user, nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	defer s.lock()()
	for _, u := range s.data.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, core.NotFoundf("user not found")
}

func (s *MemoryStore) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	defer s.lock()()
	user, ok := s.data.users[id]
	if !ok {
		return nil, core.NotFoundf("user not found")
	}
	if patch.Name.IsSet() {
		user.Name = patch.Name.Value()
	}
	if patch.Password.IsSet() {
		user.Password = patch.Password.Value()
	}
	s.data.users[id] = user
	return &user, nil
}

// Boards

func (s *MemoryStore) CreateBoard(ctx context.Context, board *models.Board) error {
	defer s.lock()()
	if _, ok := s.data.users[board.OwnerID]; !ok {
		return core.Conflictf("create board: referenced row missing for boards_owner_id_fkey")
	}
	board.ID = s.data.nextID()
	board.CreatedAt = time.Now().UTC()
	s.data.boards[board.ID] = *board
	return nil
}

func (s *MemoryStore) GetBoard(ctx context.Context, id int64) (*models.Board, error) {
	defer s.lock()()
	board, ok := s.data.boards[id]
	if !ok {
		return nil, core.NotFoundf("board not found")
	}
	return &board, nil
}

func (s *MemoryStore) ListOwnedBoards(ctx context.Context, userID int64) ([]models.Board, error) {
	defer s.lock()()
	return s.ownedBoards(userID), nil
}

func (s *MemoryStore) ownedBoards(userID int64) []models.Board {
	boards := make([]models.Board, 0)
	for _, b := range s.data.boards {
		if b.OwnerID == userID {
			boards = append(boards, b)
		}
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].ID < boards[j].ID })
	return boards
}

func (s *MemoryStore) ListSharedBoards(ctx context.Context, userID int64) ([]models.Board, error) {
	defer s.lock()()
	boards := s.ownedBoards(userID)
	shared := make([]models.Board, 0)
	for boardID, users := range s.data.members {
		if _, ok := users[userID]; !ok {
			continue
		}
		if b, ok := s.data.boards[boardID]; ok {
			shared = append(shared, b)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].ID < shared[j].ID })
	return append(boards, shared...), nil
}

func (s *MemoryStore) UpdateBoard(ctx context.Context, id int64, patch models.BoardPatch) (*models.Board, error) {
	defer s.lock()()
	board, ok := s.data.boards[id]
	if !ok {
		return nil, core.NotFoundf("board not found")
	}
	if patch.Name.IsSet() {
		board.Name = patch.Name.Value()
	}
	s.data.boards[id] = board
	return &board, nil
}

func (s *MemoryStore) DeleteBoard(ctx context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.boards[id]; !ok {
		return core.NotFoundf("board not found")
	}
	delete(s.data.boards, id)
	delete(s.data.members, id)
	for colID, col := range s.data.columns {
		if col.BoardID == id {
			s.deleteColumnCascade(colID)
		}
	}
	return nil
}

// Memberships

func (s *MemoryStore) HasMembership(ctx context.Context, boardID, userID int64) (bool, error) {
	defer s.lock()()
	users, ok := s.data.members[boardID]
	if !ok {
		return false, nil
	}
	_, ok = users[userID]
	return ok, nil
}

func (s *MemoryStore) AddMembership(ctx context.Context, boardID, userID int64) error {
	defer s.lock()()
	users, ok := s.data.members[boardID]
	if !ok {
		users = make(map[int64]time.Time)
		s.data.members[boardID] = users
	}
	if _, exists := users[userID]; exists {
		return core.Conflictf("add membership: duplicate value for board_members_pkey")
	}
	users[userID] = time.Now().UTC()
	return nil
}

func (s *MemoryStore) RemoveMembership(ctx context.Context, boardID, userID int64) (bool, error) {
	defer s.lock()()
	users, ok := s.data.members[boardID]
	if !ok {
		return false, nil
	}
	if _, exists := users[userID]; !exists {
		return false, nil
	}
	delete(users, userID)
	return true, nil
}

func (s *MemoryStore) ListMembers(ctx context.Context, boardID int64) ([]models.User, error) {
	defer s.lock()()
	grants := s.data.members[boardID]
	ids := make([]int64, 0, len(grants))
	for id := range grants {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if !grants[ids[i]].Equal(grants[ids[j]]) {
			return grants[ids[i]].Before(grants[ids[j]])
		}
		return ids[i] < ids[j]
	})
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.data.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

// Columns

func (s *MemoryStore) CreateColumn(ctx context.Context, column *models.Column) error {
	defer s.lock()()
	if _, ok := s.data.boards[column.BoardID]; !ok {
		return core.Conflictf("create column: referenced row missing for board_columns_board_id_fkey")
	}
	for _, c := range s.data.columns {
		if c.BoardID == column.BoardID && c.Position == column.Position {
			return core.Conflictf("create column: duplicate value for board_columns_board_id_position_key")
		}
	}
	column.ID = s.data.nextID()
	s.data.columns[column.ID] = *column
	return nil
}

func (s *MemoryStore) GetColumn(ctx context.Context, id int64) (*models.Column, error) {
	defer s.lock()()
	column, ok := s.data.columns[id]
	if !ok {
		return nil, core.NotFoundf("column not found")
	}
	return &column, nil
}

func (s *MemoryStore) ListColumns(ctx context.Context, boardID int64) ([]models.Column, error) {
	defer s.lock()()
	columns := make([]models.Column, 0)
	for _, c := range s.data.columns {
		if c.BoardID == boardID {
			columns = append(columns, c)
		}
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })
	return columns, nil
}

func (s *MemoryStore) UpdateColumn(ctx context.Context, id int64, patch models.ColumnPatch) (*models.Column, error) {
	defer s.lock()()
	column, ok := s.data.columns[id]
	if !ok {
		return nil, core.NotFoundf("column not found")
	}
	if patch.Name.IsSet() {
		column.Name = patch.Name.Value()
	}
	if patch.Position.IsSet() {
		for _, c := range s.data.columns {
			if c.ID != id && c.BoardID == column.BoardID && c.Position == patch.Position.Value() {
				return nil, core.Conflictf("update column: duplicate value for board_columns_board_id_position_key")
			}
		}
		column.Position = patch.Position.Value()
	}
	s.data.columns[id] = column
	return &column, nil
}

func (s *MemoryStore) DeleteColumn(ctx context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.columns[id]; !ok {
		return core.NotFoundf("column not found")
	}
	s.deleteColumnCascade(id)
	return nil
}

func (s *MemoryStore) deleteColumnCascade(id int64) {
	delete(s.data.columns, id)
	for taskID, task := range s.data.tasks {
		if task.ColumnID == id {
			delete(s.data.tasks, taskID)
			for logID, entry := range s.data.logs {
				if entry.TaskID == taskID {
					delete(s.data.logs, logID)
				}
			}
		}
	}
}

// Tasks

func (s *MemoryStore) CreateTask(ctx context.Context, task *models.Task) error {
	defer s.lock()()
	if _, ok := s.data.columns[task.ColumnID]; !ok {
		return core.Conflictf("create task: referenced row missing for tasks_column_id_fkey")
	}
	for _, t := range s.data.tasks {
		if t.ColumnID == task.ColumnID && t.Position == task.Position {
			return core.Conflictf("create task: duplicate value for tasks_column_id_position_key")
		}
	}
	task.ID = s.data.nextID()
	task.CreatedAt = time.Now().UTC()
	s.data.tasks[task.ID] = *task
	return nil
}

func (s *MemoryStore) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	defer s.lock()()
	task, ok := s.data.tasks[id]
	if !ok {
		return nil, core.NotFoundf("task not found")
	}
	return &task, nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, columnID int64, filter models.TaskFilter) ([]models.Task, error) {
	defer s.lock()()
	tasks := make([]models.Task, 0)
	for _, t := range s.data.tasks {
		if t.ColumnID != columnID || !matchTask(t, filter) {
			continue
		}
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Position < tasks[j].Position })
	return tasks, nil
}

func matchTask(t models.Task, f models.TaskFilter) bool {
	if f.Name != nil && t.Name != *f.Name {
		return false
	}
	if f.Position != nil && t.Position != *f.Position {
		return false
	}
	if f.AssigneeNull && t.AssigneeID != nil {
		return false
	}
	if f.AssigneeID != nil && (t.AssigneeID == nil || *t.AssigneeID != *f.AssigneeID) {
		return false
	}
	if f.CreatedBy != nil && t.CreatedBy != *f.CreatedBy {
		return false
	}
	return true
}

func (s *MemoryStore) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (*models.Task, error) {
	defer s.lock()()
	task, ok := s.data.tasks[id]
	if !ok {
		return nil, core.NotFoundf("task not found")
	}
	if patch.ColumnID.IsSet() {
		task.ColumnID = patch.ColumnID.Value()
	}
	if patch.Position.IsSet() {
		task.Position = patch.Position.Value()
	}
	// The final (column, position) pair must stay unique even when only the
	// column changed, matching the tasks_column_id_position_key index.
	if patch.ColumnID.IsSet() || patch.Position.IsSet() {
		for _, t := range s.data.tasks {
			if t.ID != id && t.ColumnID == task.ColumnID && t.Position == task.Position {
				return nil, core.Conflictf("update task: duplicate value for tasks_column_id_position_key")
			}
		}
	}
	if patch.Name.IsSet() {
		task.Name = patch.Name.Value()
	}
	if patch.Description.IsSet() {
		task.Description = patch.Description.Value()
	}
	if patch.AssigneeID.IsSet() {
		task.AssigneeID = patch.AssigneeID.Value()
	}
	s.data.tasks[id] = task
	return &task, nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id int64) error {
	defer s.lock()()
	if _, ok := s.data.tasks[id]; !ok {
		return core.NotFoundf("task not found")
	}
	delete(s.data.tasks, id)
	for logID, entry := range s.data.logs {
		if entry.TaskID == id {
			delete(s.data.logs, logID)
		}
	}
	return nil
}

// Task logs

func (s *MemoryStore) CreateTaskLog(ctx context.Context, entry *models.TaskLogEntry) error {
	defer s.lock()()
	if _, ok := s.data.tasks[entry.TaskID]; !ok {
		return core.Conflictf("create task log: referenced row missing for task_logs_task_id_fkey")
	}
	entry.ID = s.data.nextID()
	entry.CreatedAt = time.Now().UTC()
	s.data.logs[entry.ID] = *entry
	return nil
}

func (s *MemoryStore) ListTaskLogs(ctx context.Context, taskID int64) ([]models.TaskLogEntry, error) {
	defer s.lock()()
	entries := make([]models.TaskLogEntry, 0)
	for _, e := range s.data.logs {
		if e.TaskID == taskID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}
