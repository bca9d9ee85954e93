package core

import (
	"context"
	"errors"
	"fmt"

	"task-board-backend/pkg/models"
)

// ListTasks returns a column's tasks, optionally narrowed by field equality.
func (s *Service) ListTasks(ctx context.Context, principal *models.User, columnID int64, filter models.TaskFilter) ([]models.Task, error) {
	column, err := s.store.GetColumn(ctx, columnID)
	if err != nil {
		return nil, err
	}
	board, err := s.store.GetBoard(ctx, column.BoardID)
	if err != nil {
		return nil, err
	}
	if err := RequireMember(ctx, s.store, principal, board); err != nil {
		return nil, err
	}
	return s.store.ListTasks(ctx, columnID, filter)
}

// CreateTask inserts a task at the caller-supplied position. Position and
// assignee are validated inside the insert transaction; created_by and
// created_at are fixed here and never revisited.
func (s *Service) CreateTask(ctx context.Context, principal *models.User, columnID int64, req models.TaskCreateRequest) (*models.Task, error) {
	task := &models.Task{
		ColumnID:    columnID,
		Name:        req.Name,
		Description: req.Description,
		Position:    req.Position,
		AssigneeID:  req.AssigneeID,
		CreatedBy:   principal.ID,
	}
	err := s.store.InTx(ctx, func(tx Store) error {
		column, err := tx.GetColumn(ctx, columnID)
		if err != nil {
			return err
		}
		board, err := tx.GetBoard(ctx, column.BoardID)
		if err != nil {
			return err
		}
		if err := RequireMember(ctx, tx, principal, board); err != nil {
			return err
		}
		siblings, err := tx.ListTasks(ctx, columnID, models.TaskFilter{})
		if err != nil {
			return err
		}
		if err := ValidatePosition(req.Position, TaskPositions(siblings), 0); err != nil {
			return err
		}
		if _, err := validateAssignee(ctx, tx, board, req.AssigneeID); err != nil {
			return err
		}
		return tx.CreateTask(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns a task, authorizing through its column's board.
func (s *Service) GetTask(ctx context.Context, principal *models.User, taskID int64) (*models.Task, error) {
	task, _, _, err := s.resolveTask(ctx, s.store, principal, taskID)
	return task, err
}

// UpdateTask applies a partial update and synthesizes the audit trail,
// atomically. Fields are independent; checks run in a fixed order (column,
// position, name, assignee) so the audit entries of one update always appear
// in the same order. A field equal to its current value is a per-field no-op:
// no validation, no entry.
func (s *Service) UpdateTask(ctx context.Context, principal *models.User, taskID int64, patch models.TaskPatch) (*models.Task, error) {
	var updated *models.Task
	err := s.store.InTx(ctx, func(tx Store) error {
		task, column, board, err := s.resolveTask(ctx, tx, principal, taskID)
		if err != nil {
			return err
		}

		var entries []string
		target := column

		if patch.ColumnID.IsSet() && patch.ColumnID.Value() != task.ColumnID {
			next, err := tx.GetColumn(ctx, patch.ColumnID.Value())
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					return NotFoundf("column not found")
				}
				return err
			}
			if next.BoardID != board.ID {
				return Conflictf("cannot move tasks between boards")
			}
			entries = append(entries, fmt.Sprintf("Moved from %s to %s", column.Name, next.Name))
			target = next
		}

		if patch.Position.IsSet() && patch.Position.Value() != task.Position {
			siblings, err := tx.ListTasks(ctx, target.ID, models.TaskFilter{})
			if err != nil {
				return err
			}
			if err := ValidatePosition(patch.Position.Value(), TaskPositions(siblings), task.ID); err != nil {
				return err
			}
		}

		if patch.Name.IsSet() && patch.Name.Value() != task.Name {
			entries = append(entries, fmt.Sprintf("~~%s~~ %s", task.Name, patch.Name.Value()))
		}

		if patch.AssigneeID.IsSet() && !sameAssignee(task.AssigneeID, patch.AssigneeID.Value()) {
			if task.AssigneeID != nil {
				old, err := tx.GetUserByID(ctx, *task.AssigneeID)
				switch {
				case err == nil:
					entries = append(entries, "Unassigned "+old.Name)
				case !errors.Is(err, ErrNotFound):
					return err
				}
			}
			next, err := validateAssignee(ctx, tx, board, patch.AssigneeID.Value())
			if err != nil {
				return err
			}
			if next != nil {
				entries = append(entries, "Assigned "+next.Name)
			}
		}

		updated, err = tx.UpdateTask(ctx, taskID, patch)
		if err != nil {
			return err
		}
		for _, content := range entries {
			if err := tx.CreateTaskLog(ctx, &models.TaskLogEntry{TaskID: taskID, Content: content}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTask removes a task and its audit trail through cascade.
func (s *Service) DeleteTask(ctx context.Context, principal *models.User, taskID int64) error {
	return s.store.InTx(ctx, func(tx Store) error {
		if _, _, _, err := s.resolveTask(ctx, tx, principal, taskID); err != nil {
			return err
		}
		return tx.DeleteTask(ctx, taskID)
	})
}

// ListTaskLogs returns a task's audit trail, oldest first.
func (s *Service) ListTaskLogs(ctx context.Context, principal *models.User, taskID int64) ([]models.TaskLogEntry, error) {
	if _, _, _, err := s.resolveTask(ctx, s.store, principal, taskID); err != nil {
		return nil, err
	}
	return s.store.ListTaskLogs(ctx, taskID)
}

// resolveTask loads a task with its column and board and applies the
// transitive member check.
func (s *Service) resolveTask(ctx context.Context, st Store, principal *models.User, taskID int64) (*models.Task, *models.Column, *models.Board, error) {
	task, err := st.GetTask(ctx, taskID)
	if err != nil {
		return nil, nil, nil, err
	}
	column, err := st.GetColumn(ctx, task.ColumnID)
	if err != nil {
		return nil, nil, nil, err
	}
	board, err := st.GetBoard(ctx, column.BoardID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := RequireMember(ctx, st, principal, board); err != nil {
		return nil, nil, nil, err
	}
	return task, column, board, nil
}

// validateAssignee checks that the prospective assignee exists and holds
// board access. A nil assignee (unassigned) is always valid. Both failure
// modes are Conflicts: they describe caller state, not a missing target
// entity.
func validateAssignee(ctx context.Context, st Store, board *models.Board, assigneeID *int64) (*models.User, error) {
	if assigneeID == nil {
		return nil, nil
	}
	user, err := st.GetUserByID(ctx, *assigneeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, Conflictf("this user doesn't exist")
		}
		return nil, err
	}
	role, err := ResolveBoardRole(ctx, st, user, board)
	if err != nil {
		return nil, err
	}
	if role == RoleNone {
		return nil, Conflictf("this user doesn't have access to this board")
	}
	return user, nil
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
