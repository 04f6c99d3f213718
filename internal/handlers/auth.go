package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devjournal/devjournal-backend/internal/models"
	"github.com/devjournal/devjournal-backend/pkg/utils"
)

type SignupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name,omitempty"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *models.User `json:"user,omitempty"`
}

// Signup registers a new account and signs it in.
func Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "A valid email is required"})
		return
	}
	if len(req.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Password must be at least 8 characters"})
		return
	}

	// Check if the email is already registered
	var existing string
	err := db.QueryRowContext(r.Context(),
		"SELECT email FROM users WHERE LOWER(email) = $1", email,
	).Scan(&existing)
	if err == nil {
		writeJSON(w, http.StatusConflict, AuthResponse{Success: false, Message: "Email is already registered"})
		return
	} else if err != sql.ErrNoRows {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Database error"})
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to hash password"})
		return
	}

	userID := uuid.New()
	_, err = db.ExecContext(r.Context(), `
		INSERT INTO users (id, email, display_name, password_hash, created_at, is_active)
		VALUES ($1, $2, $3, $4, NOW(), TRUE)
	`, userID, email, strings.TrimSpace(req.DisplayName), hashedPassword)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create user"})
		return
	}

	token, err := sessions.Create(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Message: "Account created successfully",
		Token:   token,
		User: &models.User{
			ID:          userID,
			Email:       email,
			DisplayName: strings.TrimSpace(req.DisplayName),
			CreatedAt:   time.Now().UTC(),
		},
	})
}

// Signin authenticates an account and returns a fresh session token.
func Signin(w http.ResponseWriter, r *http.Request) {
	var req SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Invalid request body"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, AuthResponse{Success: false, Message: "Email and password are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var userID uuid.UUID
	var displayName sql.NullString
	var passwordHash string
	var isActive bool
	var createdAt time.Time

	err := db.QueryRowContext(r.Context(), `
		SELECT id, display_name, password_hash, created_at, is_active
		FROM users
		WHERE LOWER(email) = $1
	`, email).Scan(&userID, &displayName, &passwordHash, &createdAt, &isActive)
	if err != nil {
		if err == sql.ErrNoRows {
			writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid email or password"})
		} else {
			writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Database error"})
		}
		return
	}

	if !isActive {
		writeJSON(w, http.StatusForbidden, AuthResponse{Success: false, Message: "Account is inactive"})
		return
	}

	valid, err := utils.VerifyPassword(req.Password, passwordHash)
	if err != nil || !valid {
		writeJSON(w, http.StatusUnauthorized, AuthResponse{Success: false, Message: "Invalid email or password"})
		return
	}

	token, err := sessions.Create(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Failed to create session"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User: &models.User{
			ID:          userID,
			Email:       email,
			DisplayName: displayName.String,
			CreatedAt:   createdAt,
		},
	})
}

// Signout invalidates the caller's session token.
func Signout(w http.ResponseWriter, r *http.Request) {
	token := extractBearerToken(r.Header.Get("Authorization"))
	if token != "" {
		sessions.Invalidate(r.Context(), token)
	}
	writeJSON(w, http.StatusOK, AuthResponse{Success: true, Message: "Signed out"})
}

// GetMe returns the authenticated caller's profile.
func GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireAuth(r)
	if !ok {
		writeUnauthorized(w)
		return
	}

	var email string
	var displayName sql.NullString
	var createdAt time.Time
	err := db.QueryRowContext(r.Context(), `
		SELECT email, display_name, created_at FROM users WHERE id = $1
	`, userID).Scan(&email, &displayName, &createdAt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, AuthResponse{Success: false, Message: "Database error"})
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		Success: true,
		User: &models.User{
			ID:          userID,
			Email:       email,
			DisplayName: displayName.String,
			CreatedAt:   createdAt,
		},
	})
}
