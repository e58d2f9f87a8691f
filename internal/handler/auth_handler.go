package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/TastyTrail/internal/domain"
	"github.com/GoArmGo/TastyTrail/internal/usecase"
)

// AuthHandler — регистрация, вход и текущий пользователь
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      *slog.Logger
}

func NewAuthHandler(uc usecase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authUseCase: uc, logger: logger}
}

// Register — POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	token, err := h.authUseCase.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, token, h.logger)
}

// Login — POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in usecase.LoginInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	token, err := h.authUseCase.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, token, h.logger)
}

// Me — GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		writeError(w, r, domain.ErrUnauthorized, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("malformed JSON body: %w", domain.ErrInvalidArgument)
	}
	return nil
}
