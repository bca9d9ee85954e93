package models

import "time"

// TaskLogEntry is one line of a task's audit trail. Entries are append-only:
// they are created as a side effect of task updates, in the same transaction,
// and are never modified or deleted directly.
type TaskLogEntry struct {
	ID        int64     `json:"id" db:"id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
