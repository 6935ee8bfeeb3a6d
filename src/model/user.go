// backend/src/model/user.go
package model

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// User is one account row. PasswordHash never leaves the server.
type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"createdAt"`
}

// CreateUser inserts a new user and returns its id.
func CreateUser(db *sql.DB, email, username, passwordHash string) (int64, error) {
	res, err := db.Exec(
		"INSERT INTO users (email, username, password_hash) VALUES (?, ?, ?)",
		email, username, passwordHash,
	)
	if err != nil {
		return 0, fmt.Errorf("creating user %s: %w", email, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading new user id: %w", err)
	}
	return id, nil
}

// GetUserByEmail looks a user up for login.
func GetUserByEmail(db *sql.DB, email string) (*User, error) {
	var u User
	err := db.QueryRow(
		"SELECT id, email, username, password_hash, created_at FROM users WHERE email = ?",
		email,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by email: %w", err)
	}
	return &u, nil
}

// GetUserByID fetches a user by primary key.
func GetUserByID(db *sql.DB, id int64) (*User, error) {
	var u User
	err := db.QueryRow(
		"SELECT id, email, username, password_hash, created_at FROM users WHERE id = ?",
		id,
	).Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by id: %w", err)
	}
	return &u, nil
}

// GetUserSettings returns the user's preferences, or nil when none are
// stored yet.
func GetUserSettings(db *sql.DB, userID int64) (*models.UserSettings, error) {
	var s models.UserSettings
	var initialCapital sql.NullFloat64
	var timezone sql.NullString
	err := db.QueryRow(
		"SELECT user_id, initial_capital, timezone FROM user_settings WHERE user_id = ?",
		userID,
	).Scan(&s.UserID, &initialCapital, &timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user settings: %w", err)
	}
	if initialCapital.Valid {
		s.InitialCapital = &initialCapital.Float64
	}
	s.Timezone = timezone.String
	return &s, nil
}

// UpsertUserSettings stores or replaces the user's preferences.
func UpsertUserSettings(db *sql.DB, settings models.UserSettings) error {
	var initialCapital sql.NullFloat64
	if settings.InitialCapital != nil {
		initialCapital = sql.NullFloat64{Float64: *settings.InitialCapital, Valid: true}
	}
	_, err := db.Exec(`
		INSERT INTO user_settings (user_id, initial_capital, timezone, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT (user_id) DO UPDATE SET
			initial_capital = excluded.initial_capital,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		settings.UserID, initialCapital, nullString(settings.Timezone),
	)
	if err != nil {
		return fmt.Errorf("upserting user settings: %w", err)
	}
	return nil
}

// CreateSession stores a refresh token for the user.
func CreateSession(db *sql.DB, userID int64, refreshToken string, expiresAt time.Time) error {
	_, err := db.Exec(
		"INSERT INTO sessions (user_id, refresh_token, expires_at) VALUES (?, ?, ?)",
		userID, refreshToken, expiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	return nil
}

// GetSessionUserID resolves an unexpired refresh token to its user.
func GetSessionUserID(db *sql.DB, refreshToken string) (int64, error) {
	var userID int64
	err := db.QueryRow(
		"SELECT user_id FROM sessions WHERE refresh_token = ? AND expires_at > ?",
		refreshToken, time.Now().UTC().Format(time.RFC3339),
	).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying session: %w", err)
	}
	return userID, nil
}

// DeleteSession revokes a refresh token.
func DeleteSession(db *sql.DB, refreshToken string) error {
	_, err := db.Exec("DELETE FROM sessions WHERE refresh_token = ?", refreshToken)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}
