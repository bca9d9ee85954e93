package models

// Column is an ordered list of tasks within a board. Position is a
// zero-based integer, unique within the board; gaps are tolerated.
type Column struct {
	ID       int64  `json:"id" db:"id"`
	BoardID  int64  `json:"board_id" db:"board_id"`
	Name     string `json:"name" db:"name"`
	Position int    `json:"position" db:"position"`
}

// ColumnCreateRequest represents the request payload for column creation.
// Position is caller-supplied and validated, not auto-assigned.
type ColumnCreateRequest struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// ColumnPatch is a partial update of a column.
type ColumnPatch struct {
	Name     Field[string] `json:"name"`
	Position Field[int]    `json:"position"`
}
