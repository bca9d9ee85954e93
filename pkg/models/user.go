package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User represents a registered account.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password_hash"` // never serialized
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserRegisterRequest represents the request payload for registration.
type UserRegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserLoginRequest represents the request payload for login.
type UserLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserLoginResponse carries the token pair issued on login/registration.
type UserLoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshTokenRequest represents the request payload for token refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserPatch is a partial update of the caller's own profile.
type UserPatch struct {
	Name     Field[string] `json:"name"`
	Password Field[string] `json:"password"`
}

// TokenClaims represents the JWT token claims.
type TokenClaims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Type     string `json:"type"` // "access" or "refresh"
	TokenID  string `json:"jti"`
	Exp      int64  `json:"exp"`
	Iat      int64  `json:"iat"`
}

// GetExpirationTime implements jwt.Claims.
func (c *TokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Exp, 0)), nil
}

// GetIssuedAt implements jwt.Claims.
func (c *TokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.Iat, 0)), nil
}

// GetNotBefore implements jwt.Claims.
func (c *TokenClaims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims.
func (c *TokenClaims) GetIssuer() (string, error) {
	return "", nil
}

// GetSubject implements jwt.Claims.
func (c *TokenClaims) GetSubject() (string, error) {
	return c.Username, nil
}

// GetAudience implements jwt.Claims.
func (c *TokenClaims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}
