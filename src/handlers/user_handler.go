// backend/src/handlers/user_handler.go
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/security"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/utils"
)

const refreshTokenTTL = 30 * 24 * time.Hour

// UserHandler serves registration, login and settings.
type UserHandler struct {
	db   *sql.DB
	auth *security.AuthService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(db *sql.DB, auth *security.AuthService) *UserHandler {
	return &UserHandler{db: db, auth: auth}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
}

// Register creates a new account.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = validation.SanitizeText(req.Username)
	if req.Email == "" || req.Username == "" || len(req.Password) < 8 {
		utils.SendJSONError(w, "Email, username and a password of at least 8 characters are required", http.StatusBadRequest)
		return
	}

	hash, err := h.auth.HashPassword(req.Password)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Password hash failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not create account", http.StatusInternalServerError)
		return
	}
	userID, err := model.CreateUser(h.db, req.Email, req.Username, hash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			utils.SendJSONError(w, "Email or username already in use", http.StatusConflict)
			return
		}
		logger.ErrorFromContext(r.Context(), "User creation failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not create account", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]any{"userId": userID}, http.StatusCreated)
}

// Login checks credentials and issues an access/refresh token pair.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := model.GetUserByEmail(h.db, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, model.ErrUserNotFound) {
		utils.SendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		logger.ErrorFromContext(r.Context(), "User lookup failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not log in", http.StatusInternalServerError)
		return
	}
	if err := h.auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		utils.SendJSONError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	accessToken, err := h.auth.GenerateToken(user.ID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Token mint failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not log in", http.StatusInternalServerError)
		return
	}
	refreshToken, err := h.auth.GenerateRefreshToken()
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Refresh token mint failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not log in", http.StatusInternalServerError)
		return
	}
	if err := model.CreateSession(h.db, user.ID, refreshToken, time.Now().Add(refreshTokenTTL)); err != nil {
		logger.ErrorFromContext(r.Context(), "Session creation failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not log in", http.StatusInternalServerError)
		return
	}

	utils.SendJSON(w, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Username:     user.Username,
	}, http.StatusOK)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a valid refresh token for a new access token.
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	userID, err := model.GetSessionUserID(h.db, req.RefreshToken)
	if err != nil {
		utils.SendJSONError(w, "Invalid or expired refresh token", http.StatusUnauthorized)
		return
	}
	accessToken, err := h.auth.GenerateToken(userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Token mint failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not refresh token", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, map[string]string{"accessToken": accessToken}, http.StatusOK)
}

// Logout revokes the refresh token.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := model.DeleteSession(h.db, req.RefreshToken); err != nil {
		logger.ErrorFromContext(r.Context(), "Session delete failed", slog.Any("error", err))
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSettings returns the user's analytics preferences.
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	settings, err := model.GetUserSettings(h.db, userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Settings fetch failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not load settings", http.StatusInternalServerError)
		return
	}
	if settings == nil {
		settings = &models.UserSettings{UserID: userID}
	}
	utils.SendJSON(w, settings, http.StatusOK)
}

// UpdateSettings stores the user's analytics preferences.
func (h *UserHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var settings models.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	settings.UserID = userID
	if err := model.UpsertUserSettings(h.db, settings); err != nil {
		logger.ErrorFromContext(r.Context(), "Settings update failed", slog.Any("error", err))
		utils.SendJSONError(w, "Could not save settings", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, settings, http.StatusOK)
}
