package database

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"task-board-backend/pkg/core"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantMsg string
	}{
		{
			name:   "nil passes through",
			err:    nil,
			wantIs: nil,
		},
		{
			name:    "no rows becomes not found",
			err:     sql.ErrNoRows,
			wantIs:  core.ErrNotFound,
			wantMsg: "board not found",
		},
		{
			name:    "unique violation becomes conflict",
			err:     &pq.Error{Code: "23505", Constraint: "board_columns_board_id_position_key"},
			wantIs:  core.ErrConflict,
			wantMsg: "duplicate value for board_columns_board_id_position_key",
		},
		{
			name:    "foreign key violation becomes conflict",
			err:     &pq.Error{Code: "23503", Constraint: "tasks_column_id_fkey"},
			wantIs:  core.ErrConflict,
			wantMsg: "referenced row missing",
		},
		{
			name:    "check violation becomes conflict",
			err:     &pq.Error{Code: "23514", Constraint: "tasks_position_check"},
			wantIs:  core.ErrConflict,
			wantMsg: "constraint tasks_position_check violated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError("board not found", tt.err)
			if tt.wantIs == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.wantIs)
			assert.Contains(t, got.Error(), tt.wantMsg)
		})
	}
}

func TestMapErrorWrapsUnknownErrors(t *testing.T) {
	cause := errors.New("connection reset")
	got := mapError("list tasks", cause)

	assert.ErrorIs(t, got, cause)
	assert.NotErrorIs(t, got, core.ErrConflict)
	assert.NotErrorIs(t, got, core.ErrNotFound)
	assert.Contains(t, got.Error(), "list tasks")
}

func TestMapErrorSerializationFailurePassesThrough(t *testing.T) {
	cause := &pq.Error{Code: "40001"}
	got := mapError("commit tx", cause)

	// Retryable failures keep their driver identity; the caller decides.
	assert.ErrorIs(t, got, cause)
	assert.NotErrorIs(t, got, core.ErrConflict)
}
