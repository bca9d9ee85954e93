package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"task-board-backend/pkg/core"
)

// PostgreSQL error codes worth translating into the core taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgSerializationFail   = "40001"
)

// mapError translates driver-level failures into core errors so callers above
// the repository never see pq internals. Unique violations become Conflicts:
// the DB constraints on (board_id, position), (column_id, position),
// (board_id, user_id) and username are the backstop for the in-transaction
// checks when two writers race. Serialization failures pass through
// unchanged; retrying them is the caller's concern.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFoundf("%s", op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return core.Conflictf("%s: duplicate value for %s", op, pqErr.Constraint)
		case pgForeignKeyViolation:
			return core.Conflictf("%s: referenced row missing for %s", op, pqErr.Constraint)
		case pgCheckViolation:
			return core.Conflictf("%s: constraint %s violated", op, pqErr.Constraint)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
