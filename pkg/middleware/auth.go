package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"task-board-backend/pkg/core"
	"task-board-backend/pkg/models"
	"task-board-backend/pkg/utils"
)

// ContextKey is the type for values this package stores in the request
// context.
type ContextKey string

const UserContextKey ContextKey = "user"

// AuthMiddleware verifies the bearer token and resolves it to a User record.
// A token whose user no longer exists is rejected the same way as an invalid
// token.
func AuthMiddleware(jwtService *utils.JWTService, svc *core.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.WriteUnauthorizedResponse(w, "missing authorization header")
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				utils.WriteUnauthorizedResponse(w, "invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(tokenString)
			if err != nil {
				utils.WriteUnauthorizedResponse(w, "invalid token: "+err.Error())
				return
			}

			user, err := svc.GetUser(r.Context(), claims.UserID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					utils.WriteUnauthorizedResponse(w, "could not validate credentials")
					return
				}
				utils.WriteCoreError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated user, if any.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	return user, ok
}

// RequireUser returns the authenticated user or an Unauthenticated error.
func RequireUser(ctx context.Context) (*models.User, error) {
	user, ok := GetUserFromContext(ctx)
	if !ok || user == nil {
		return nil, core.Unauthenticatedf("user not authenticated")
	}
	return user, nil
}
