package core

import (
	"context"
	"errors"

	"task-board-backend/pkg/auth"
	"task-board-backend/pkg/models"
)

// Register creates a new account. Fails with Conflict when the username is
// already taken; the existence check and the insert run in one transaction,
// backed by the store's username uniqueness.
func (s *Service) Register(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	if err := auth.ValidateUsername(req.Username); err != nil {
		return nil, Conflictf("%s", err.Error())
	}
	hashed, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, Conflictf("%s", err.Error())
	}

	user := &models.User{
		Username: req.Username,
		Name:     req.Name,
		Password: hashed,
	}
	err = s.store.InTx(ctx, func(tx Store) error {
		_, err := tx.GetUserByUsername(ctx, req.Username)
		if err == nil {
			return Conflictf("username already taken")
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		return tx.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.log.WithField("user_id", user.ID).Info("user registered")
	return user, nil
}

// Authenticate verifies a username/password pair. Both unknown usernames and
// wrong passwords surface the same Unauthenticated error.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, Unauthenticatedf("incorrect username or password")
		}
		return nil, err
	}
	if err := s.passwords.ComparePassword(user.Password, password); err != nil {
		return nil, Unauthenticatedf("incorrect username or password")
	}
	return user, nil
}

// GetUser resolves a user id, e.g. when the auth middleware turns token
// claims back into a principal.
func (s *Service) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.store.GetUserByID(ctx, id)
}

// UpdateProfile applies a partial update to the caller's own record. Name and
// credential are mutable by their owner only, which the signature enforces:
// there is no way to address another user.
func (s *Service) UpdateProfile(ctx context.Context, principal *models.User, patch models.UserPatch) (*models.User, error) {
	if patch.Password.IsSet() {
		hashed, err := s.passwords.HashPassword(patch.Password.Value())
		if err != nil {
			return nil, Conflictf("%s", err.Error())
		}
		patch.Password = models.Set(hashed)
	}
	return s.store.UpdateUser(ctx, principal.ID, patch)
}
