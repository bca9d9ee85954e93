package models

import "time"

// Task is a board item within a column. Position is a zero-based integer,
// unique within the column. CreatedBy and CreatedAt are set once and never
// revisited.
type Task struct {
	ID          int64     `json:"id" db:"id"`
	ColumnID    int64     `json:"column_id" db:"column_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"`
	AssigneeID  *int64    `json:"assignee_id" db:"assignee_id"`
	CreatedBy   int64     `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TaskCreateRequest represents the request payload for task creation.
type TaskCreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Position    int     `json:"position"`
	AssigneeID  *int64  `json:"assignee_id"`
}

// TaskPatch is a partial update of a task. Every slot distinguishes "absent"
// from "set to null"; nullable slots carry the null as a nil pointer.
type TaskPatch struct {
	ColumnID    Field[int64]   `json:"column_id"`
	Position    Field[int]     `json:"position"`
	Name        Field[string]  `json:"name"`
	Description Field[*string] `json:"description"`
	AssigneeID  Field[*int64]  `json:"assignee_id"`
}

// TaskFilter restricts task listings by field equality. AssigneeNull is the
// sentinel for "filter by null assignee", distinct from no filter at all.
type TaskFilter struct {
	Name         *string
	Position     *int
	AssigneeID   *int64
	AssigneeNull bool
	CreatedBy    *int64
}
