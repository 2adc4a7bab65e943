package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/weekboard/api/internal/domain"
	"github.com/weekboard/api/internal/service"
	"github.com/weekboard/api/internal/validator"
)

// AuthService defines the behavior AuthHandler needs from the auth service.
type AuthService interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessToken string) error
}

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidationFailed.WithDetails(map[string]string{
			"body": "invalid JSON format",
		}))
		return
	}

	if err := validator.ValidateSignup(req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	h.logger.Info("User signed up", "user_id", user.ID, "ip", getClientIP(r))
	respondJSON(w, http.StatusCreated, domain.SignupResponse{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Message: "Account created",
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidationFailed.WithDetails(map[string]string{
			"body": "invalid JSON format",
		}))
		return
	}

	if err := validator.ValidateLogin(req); err != nil {
		respondError(w, err)
		return
	}

	tokens, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.logger.Warn("Login failed", "email", req.Email, "ip", getClientIP(r))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondError(w, domain.ErrValidationFailed.WithDetails(map[string]string{
			"refresh_token": "is required",
		}))
		return
	}

	tokens, err := h.authService.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		respondError(w, domain.ErrUnauthorized)
		return
	}

	accessToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.authService.Logout(r.Context(), userID, accessToken); err != nil {
		h.logger.Error("Logout failed", "error", err, "user_id", userID)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}
