package core

import (
	"context"

	"task-board-backend/pkg/models"
)

// Role classifies a user's relationship to a board.
type Role int

const (
	RoleNone Role = iota
	RoleCollaborator
	RoleOwner
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleCollaborator:
		return "collaborator"
	default:
		return "none"
	}
}

// ResolveBoardRole is the single source of truth for board access: Owner if
// the user owns the board, Collaborator if a membership row exists, None
// otherwise. Column and task access is always derived by resolving the owning
// board first; there is no independent ACL below the board.
func ResolveBoardRole(ctx context.Context, st Store, user *models.User, board *models.Board) (Role, error) {
	if board.OwnerID == user.ID {
		return RoleOwner, nil
	}
	member, err := st.HasMembership(ctx, board.ID, user.ID)
	if err != nil {
		return RoleNone, err
	}
	if member {
		return RoleCollaborator, nil
	}
	return RoleNone, nil
}

// RequireOwner fails with PermissionDenied unless the user owns the board.
func RequireOwner(ctx context.Context, st Store, user *models.User, board *models.Board) error {
	role, err := ResolveBoardRole(ctx, st, user, board)
	if err != nil {
		return err
	}
	if role != RoleOwner {
		return PermissionDeniedf("not enough permissions")
	}
	return nil
}

// RequireMember fails with PermissionDenied unless the user is the owner or
// a collaborator of the board.
func RequireMember(ctx context.Context, st Store, user *models.User, board *models.Board) error {
	role, err := ResolveBoardRole(ctx, st, user, board)
	if err != nil {
		return err
	}
	if role == RoleNone {
		return PermissionDeniedf("not enough permissions")
	}
	return nil
}
