package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"task-board-backend/pkg/models"
)

// JWTService issues and verifies HS256 bearer tokens. The secret comes from
// the Config constructed at process start; nothing here reads the
// environment.
type JWTService struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a token service.
func NewJWTService(secretKey string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateTokenPair issues an access and refresh token for the user.
func (j *JWTService) GenerateTokenPair(user *models.User) (accessToken, refreshToken string, expiresIn int64, err error) {
	now := time.Now()

	accessExpiry := now.Add(j.accessTTL)
	accessToken, err = j.sign(user, "access", now, accessExpiry)
	if err != nil {
		return "", "", 0, err
	}

	refreshToken, err = j.sign(user, "refresh", now, now.Add(j.refreshTTL))
	if err != nil {
		return "", "", 0, err
	}
	return accessToken, refreshToken, accessExpiry.Unix(), nil
}

func (j *JWTService) sign(user *models.User, tokenType string, now, expiry time.Time) (string, error) {
	claims := &models.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Type:     tokenType,
		TokenID:  uuid.NewString(),
		Exp:      expiry.Unix(),
		Iat:      now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return token, nil
}

// ValidateAccessToken verifies a bearer token and returns its claims.
func (j *JWTService) ValidateAccessToken(tokenString string) (*models.TokenClaims, error) {
	return j.validate(tokenString, "access")
}

// ValidateRefreshToken verifies a refresh token and returns its claims.
func (j *JWTService) ValidateRefreshToken(tokenString string) (*models.TokenClaims, error) {
	return j.validate(tokenString, "refresh")
}

func (j *JWTService) validate(tokenString, wantType string) (*models.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(*models.TokenClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", wantType, claims.Type)
	}
	if time.Now().Unix() > claims.Exp {
		return nil, fmt.Errorf("token expired")
	}
	return claims, nil
}

// RefreshAccessToken issues a fresh access token from a valid refresh token.
func (j *JWTService) RefreshAccessToken(refreshToken string) (string, int64, error) {
	claims, err := j.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", 0, fmt.Errorf("invalid refresh token: %w", err)
	}
	now := time.Now()
	expiry := now.Add(j.accessTTL)
	user := &models.User{ID: claims.UserID, Username: claims.Username}
	token, err := j.sign(user, "access", now, expiry)
	if err != nil {
		return "", 0, err
	}
	return token, expiry.Unix(), nil
}
