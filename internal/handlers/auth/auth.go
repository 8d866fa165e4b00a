package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/pkg/response"
	services "github.com/evn/eom_hradmin/internal/services/auth"
)

type AuthHandler struct {
	admin      models.Admin
	jwtService *services.JWTService
}

func NewAuthHandler(admin models.Admin, jwtService *services.JWTService) *AuthHandler {
	return &AuthHandler{
		admin:      admin,
		jwtService: jwtService,
	}
}

// LoginHandler POST /api/auth/login
func (h *AuthHandler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var loginData models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginData); err != nil {
		response.RespondWithError(w, http.StatusBadRequest, "Invalid request data")
		return
	}

	if !strings.EqualFold(loginData.Username, h.admin.Username) ||
		!services.CheckPasswordHash(loginData.Password, h.admin.PasswordHash) {
		slog.WarnContext(r.Context(), "admin login rejected", "username", loginData.Username)
		response.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(h.admin.ID, h.admin.Username, h.admin.Role)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to generate token", "error", err)
		response.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	response.RespondWithJSON(w, http.StatusOK, models.AuthResponse{
		Token:    token,
		Role:     h.admin.Role,
		UserID:   h.admin.ID,
		Username: h.admin.Username,
	})
}

// LogoutHandler: токены без состояния, клиент просто забывает токен.
func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	response.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}
