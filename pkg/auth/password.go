package auth

import (
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var ErrWeakPassword = errors.New("password does not meet requirements")

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// PasswordManager handles credential hashing and verification.
type PasswordManager struct {
	cost      int
	minLength int
}

// NewPasswordManager creates a password manager with default settings.
func NewPasswordManager() *PasswordManager {
	return &PasswordManager{
		cost:      bcrypt.DefaultCost,
		minLength: 8,
	}
}

// HashPassword validates and hashes a plaintext password.
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	if err := pm.ValidatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword compares a plaintext password with a stored hash.
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword checks whether a password meets the requirements.
func (pm *PasswordManager) ValidatePassword(password string) error {
	if len(password) < pm.minLength {
		return fmt.Errorf("%w: minimum length is %d characters", ErrWeakPassword, pm.minLength)
	}
	return nil
}

// ValidateUsername validates a username.
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return errors.New("username must not exceed 50 characters")
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("username can only contain letters, numbers, underscore, and hyphen")
	}
	return nil
}
