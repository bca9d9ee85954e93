package core

import (
	"context"
	"errors"

	"task-board-backend/pkg/models"
)

// ListBoards returns every board the principal can see: owned boards first,
// then boards shared via membership.
func (s *Service) ListBoards(ctx context.Context, principal *models.User) ([]models.Board, error) {
	return s.store.ListSharedBoards(ctx, principal.ID)
}

// GetBoard returns a board the principal owns or collaborates on.
func (s *Service) GetBoard(ctx context.Context, principal *models.User, boardID int64) (*models.Board, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := RequireMember(ctx, s.store, principal, board); err != nil {
		return nil, err
	}
	return board, nil
}

// CreateBoard creates a board owned by the principal.
func (s *Service) CreateBoard(ctx context.Context, principal *models.User, req models.BoardCreateRequest) (*models.Board, error) {
	board := &models.Board{Name: req.Name, OwnerID: principal.ID}
	if err := s.store.CreateBoard(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// UpdateBoard renames a board. Administration is owner-only.
func (s *Service) UpdateBoard(ctx context.Context, principal *models.User, boardID int64, patch models.BoardPatch) (*models.Board, error) {
	var updated *models.Board
	err := s.store.InTx(ctx, func(tx Store) error {
		board, err := tx.GetBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if err := RequireOwner(ctx, tx, principal, board); err != nil {
			return err
		}
		updated, err = tx.UpdateBoard(ctx, boardID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBoard removes a board and, through cascade, its columns, tasks and
// memberships. Owner-only.
func (s *Service) DeleteBoard(ctx context.Context, principal *models.User, boardID int64) error {
	return s.store.InTx(ctx, func(tx Store) error {
		board, err := tx.GetBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if err := RequireOwner(ctx, tx, principal, board); err != nil {
			return err
		}
		return tx.DeleteBoard(ctx, boardID)
	})
}

// ListMembers returns everyone with access to the board, the owner first and
// collaborators after, oldest grant first.
func (s *Service) ListMembers(ctx context.Context, principal *models.User, boardID int64) ([]models.User, error) {
	board, err := s.store.GetBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if err := RequireMember(ctx, s.store, principal, board); err != nil {
		return nil, err
	}
	owner, err := s.store.GetUserByID(ctx, board.OwnerID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.ListMembers(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return append([]models.User{*owner}, members...), nil
}

// AddMember grants a user collaborator access. Owner-only. Adding the owner
// or an existing member fails with Conflict; the existence check and the
// insert share a transaction so concurrent grants cannot both succeed.
func (s *Service) AddMember(ctx context.Context, principal *models.User, boardID, userID int64) error {
	return s.store.InTx(ctx, func(tx Store) error {
		board, err := tx.GetBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if err := RequireOwner(ctx, tx, principal, board); err != nil {
			return err
		}
		if userID == board.OwnerID {
			return Conflictf("board owner is always a member")
		}
		if _, err := tx.GetUserByID(ctx, userID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return NotFoundf("user not found")
			}
			return err
		}
		member, err := tx.HasMembership(ctx, boardID, userID)
		if err != nil {
			return err
		}
		if member {
			return Conflictf("user is already a member")
		}
		return tx.AddMembership(ctx, boardID, userID)
	})
}

// RemoveMember revokes collaborator access. Owner-only. Removing the owner or
// a user who was never added fails with Conflict, never silently succeeds.
func (s *Service) RemoveMember(ctx context.Context, principal *models.User, boardID, userID int64) error {
	return s.store.InTx(ctx, func(tx Store) error {
		board, err := tx.GetBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if err := RequireOwner(ctx, tx, principal, board); err != nil {
			return err
		}
		if userID == board.OwnerID {
			return Conflictf("cannot remove the board owner")
		}
		removed, err := tx.RemoveMembership(ctx, boardID, userID)
		if err != nil {
			return err
		}
		if !removed {
			return Conflictf("user is not a member")
		}
		return nil
	})
}
