package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devjournal/devjournal-backend/internal/services"
)

func TestGetEntries_LimitCapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	owner := uuid.New()
	setupHandlers(t, Deps{
		Entries:  services.NewPostgresEntryStore(db),
		Sessions: &fakeSessions{token: "valid-token", userID: owner},
	})

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM journal_entries`).
		WithArgs(owner).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// An oversized limit parameter falls back to the default page size.
	mock.ExpectQuery(`LIMIT \$2 OFFSET \$3`).
		WithArgs(owner, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "content", "category", "tags", "created_at", "updated_at"}))

	rec := doRequest(GetEntries, http.MethodGet, "/api/entries?limit=5000", "valid-token", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
