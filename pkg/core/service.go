package core

import (
	log "github.com/sirupsen/logrus"

	"task-board-backend/pkg/auth"
)

// Service applies the board rules on top of a Store: every mutation passes
// the access gate first, then position validation if positions are touched,
// then the task audit synthesis, all inside one transaction.
type Service struct {
	store     Store
	passwords *auth.PasswordManager
	log       *log.Logger
}

// NewService wires the core against a store.
func NewService(store Store, passwords *auth.PasswordManager, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Service{store: store, passwords: passwords, log: logger}
}
