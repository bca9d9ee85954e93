package handlers

import (
	"net/http"

	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/models"
	"task-board-backend/pkg/utils"
)

// AuthHandler serves registration, login and token refresh.
type AuthHandler struct {
	config *config.Config
	svc    *core.Service
	jwt    *utils.JWTService
}

// NewAuthHandler creates the handler.
func NewAuthHandler(cfg *config.Config, svc *core.Service, jwt *utils.JWTService) *AuthHandler {
	return &AuthHandler{config: cfg, svc: svc, jwt: jwt}
}

// POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserRegisterRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}
	if req.Username == "" || req.Password == "" {
		utils.WriteBadRequestResponse(w, "username and password required")
		return
	}

	user, err := h.svc.Register(r.Context(), req)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	h.writeTokenPair(w, http.StatusCreated, user)
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.UserLoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}

	user, err := h.svc.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		utils.WriteCoreError(w, err)
		return
	}
	h.writeTokenPair(w, http.StatusOK, user)
}

// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "invalid body")
		return
	}

	accessToken, expiresAt, err := h.jwt.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, err.Error())
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresAt,
	})
}

// HealthCheck answers liveness probes.
func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]interface{}{"status": "ok"})
}

func (h *AuthHandler) writeTokenPair(w http.ResponseWriter, status int, user *models.User) {
	accessToken, refreshToken, expiresAt, err := h.jwt.GenerateTokenPair(user)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, err.Error())
		return
	}
	utils.WriteJSONResponse(w, status, models.UserLoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresAt,
	})
}
