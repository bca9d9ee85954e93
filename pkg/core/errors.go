package core

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure the core surfaces wraps exactly one of these
// sentinels; callers classify with errors.Is and never retry, since all four
// are caused by caller input or caller state.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
)

// Unauthenticatedf wraps ErrUnauthenticated with a message.
func Unauthenticatedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnauthenticated, fmt.Sprintf(format, args...))
}

// PermissionDeniedf wraps ErrPermissionDenied with a message.
func PermissionDeniedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
