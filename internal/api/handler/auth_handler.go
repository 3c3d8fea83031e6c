package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pybank/internal/api/handler/dto"
	"pybank/internal/config"
	"pybank/internal/domain/user"
	"pybank/internal/pkg/apperrors"
)

type AuthHandler struct {
	service user.UserService
	cfg     config.Config
	logger  *slog.Logger
}

func NewAuthHandler(s user.UserService, cfg config.Config, l *slog.Logger) *AuthHandler {
	if s == nil {
		panic("user service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AuthHandler{
		service: s,
		cfg:     cfg,
		logger:  l.With("component", "AuthHandler"),
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received register request")

	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	registered, err := h.service.Register(r.Context(), req.Name, req.Username, req.Email, req.Password, req.Phone)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to register user", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := dto.NewUserResponse(registered)
	h.logger.InfoContext(r.Context(), "User registered successfully", slog.String("userID", resp.UserID))
	respondJSON(w, http.StatusCreated, resp)
}

// GenerateBearerToken handles POST /auth/token. Credentials are checked
// against the user store before a token is issued.
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received token request")

	var req dto.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	authenticated, err := h.service.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Authentication failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	claims := jwt.MapClaims{
		"username": authenticated.Username,
		"user_id":  authenticated.UserID,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(h.cfg.Server.Auth.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, apperrors.ErrInternalServer)
		return
	}

	h.logger.InfoContext(r.Context(), "Token issued", slog.String("username", authenticated.Username))
	respondJSON(w, http.StatusOK, map[string]string{"token": fmt.Sprintf("Bearer %s", tokenString)})
}
