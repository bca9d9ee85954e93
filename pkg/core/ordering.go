package core

import "task-board-backend/pkg/models"

// PositionHolder is one sibling in an ordered set: a column within a board or
// a task within a column.
type PositionHolder struct {
	ID       int64
	Position int
}

// ValidatePosition checks a candidate position against its sibling set.
// Positions are zero-based integers, unique within the set; gaps left by
// deletions are tolerated and never compacted, so only negativity and
// occupancy are rejected. selfID excludes the entity being moved, so a no-op
// move never conflicts with itself; pass 0 when validating a create.
//
// The check is check-then-act: callers must run it inside the same
// transaction as the write it guards.
func ValidatePosition(position int, siblings []PositionHolder, selfID int64) error {
	if position < 0 {
		return Conflictf("position must be greater or equal 0")
	}
	for _, sibling := range siblings {
		if sibling.ID == selfID {
			continue
		}
		if sibling.Position == position {
			return Conflictf("this position is already taken")
		}
	}
	return nil
}

// ColumnPositions adapts columns to the sibling set ValidatePosition expects.
func ColumnPositions(columns []models.Column) []PositionHolder {
	holders := make([]PositionHolder, len(columns))
	for i, c := range columns {
		holders[i] = PositionHolder{ID: c.ID, Position: c.Position}
	}
	return holders
}

// TaskPositions adapts tasks to the sibling set ValidatePosition expects.
func TaskPositions(tasks []models.Task) []PositionHolder {
	holders := make([]PositionHolder, len(tasks))
	for i, t := range tasks {
		holders[i] = PositionHolder{ID: t.ID, Position: t.Position}
	}
	return holders
}
