package core

import (
	"context"

	"task-board-backend/pkg/models"
)

// ListColumns returns the board's columns, position order.
func (s *Service) ListColumns(ctx context.Context, principal *models.User, boardID int64) ([]models.Column, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := RequireMember(ctx, s.store, principal, board); err != nil {
		return nil, err
	}
	return s.store.ListColumns(ctx, boardID)
}

// CreateColumn adds a column at the caller-supplied position. The position
// check and the insert share a transaction so two concurrent creates cannot
// both land on the same slot.
func (s *Service) CreateColumn(ctx context.Context, principal *models.User, boardID int64, req models.ColumnCreateRequest) (*models.Column, error) {
	column := &models.Column{BoardID: boardID, Name: req.Name, Position: req.Position}
	err := s.store.InTx(ctx, func(tx Store) error {
		board, err := tx.GetBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if err := RequireMember(ctx, tx, principal, board); err != nil {
			return err
		}
		siblings, err := tx.ListColumns(ctx, boardID)
		if err != nil {
			return err
		}
		if err := ValidatePosition(req.Position, ColumnPositions(siblings), 0); err != nil {
			return err
		}
		return tx.CreateColumn(ctx, column)
	})
	if err != nil {
		return nil, err
	}
	return column, nil
}

// GetColumn returns a column, authorizing through its owning board.
func (s *Service) GetColumn(ctx context.Context, principal *models.User, columnID int64) (*models.Column, error) {
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
	return column, nil
}

// UpdateColumn applies a partial update. A position equal to the current one
// is a no-op and is not re-validated.
func (s *Service) UpdateColumn(ctx context.Context, principal *models.User, columnID int64, patch models.ColumnPatch) (*models.Column, error) {
	var updated *models.Column
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
		if patch.Position.IsSet() && patch.Position.Value() != column.Position {
			siblings, err := tx.ListColumns(ctx, column.BoardID)
			if err != nil {
				return err
			}
			if err := ValidatePosition(patch.Position.Value(), ColumnPositions(siblings), column.ID); err != nil {
				return err
			}
		}
		updated, err = tx.UpdateColumn(ctx, columnID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteColumn removes a column and, through cascade, its tasks. Sibling
// positions are not renumbered; the gap is tolerated.
func (s *Service) DeleteColumn(ctx context.Context, principal *models.User, columnID int64) error {
	return s.store.InTx(ctx, func(tx Store) error {
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
		return tx.DeleteColumn(ctx, columnID)
	})
}
