package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devjournal/devjournal-backend/pkg/utils"
)

func TestSignin_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userID := uuid.New()
	created := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	setupHandlers(t, Deps{DB: db, Sessions: &fakeSessions{token: "session-token", userID: userID}})

	mock.ExpectQuery(`FROM users`).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "password_hash", "created_at", "is_active"}).
			AddRow(userID.String(), "Ada", hash, created, true))

	rec := doRequest(Signin, http.MethodPost, "/api/auth/signin", "",
		`{"email": "User@Example.com", "password": "password123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "session-token", resp.Token)
	require.NotNil(t, resp.User)
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "user@example.com", resp.User.Email)
	assert.Equal(t, "Ada", resp.User.DisplayName)
	assert.True(t, created.Equal(resp.User.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignin_WrongPassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userID := uuid.New()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	setupHandlers(t, Deps{DB: db, Sessions: &fakeSessions{userID: userID}})

	mock.ExpectQuery(`FROM users`).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "password_hash", "created_at", "is_active"}).
			AddRow(userID.String(), "Ada", hash, time.Now().UTC(), true))

	rec := doRequest(Signin, http.MethodPost, "/api/auth/signin", "",
		`{"email": "user@example.com", "password": "not-the-password"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignin_InactiveAccount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userID := uuid.New()
	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	setupHandlers(t, Deps{DB: db, Sessions: &fakeSessions{userID: userID}})

	mock.ExpectQuery(`FROM users`).
		WithArgs("user@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "display_name", "password_hash", "created_at", "is_active"}).
			AddRow(userID.String(), "Ada", hash, time.Now().UTC(), false))

	rec := doRequest(Signin, http.MethodPost, "/api/auth/signin", "",
		`{"email": "user@example.com", "password": "password123"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
