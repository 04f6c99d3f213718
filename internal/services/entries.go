package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/devjournal/devjournal-backend/internal/models"
)

// PostgresEntryStore is the journal_entries table. Every read and write is
// scoped by owner; there is no cross-owner access path.
type PostgresEntryStore struct {
	DB *sql.DB
}

func NewPostgresEntryStore(db *sql.DB) *PostgresEntryStore {
	return &PostgresEntryStore{DB: db}
}

const entryColumns = "id, user_id, title, content, category, tags, created_at, updated_at"

// ListByOwner returns all of the owner's entries, newest first. The summary
// pipeline relies on this ordering for its prompt serialization.
func (s *PostgresEntryStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.JournalEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ListPage returns one page of the owner's entries, newest first, plus the
// total count for pagination.
func (s *PostgresEntryStore) ListPage(ctx context.Context, ownerID uuid.UUID, limit, skip int) ([]models.JournalEntry, int64, error) {
	var total int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`, ownerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "count", Err: err}
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, skip)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "select", Err: err}
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// Create inserts a new entry, assigning ID and timestamps.
func (s *PostgresEntryStore) Create(ctx context.Context, entry *models.JournalEntry) error {
	entry.ID = uuid.New()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO journal_entries (id, user_id, title, content, category, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, entry.ID, entry.UserID, entry.Title, entry.Content, nullIfEmpty(entry.Category),
		pq.Array([]string(entry.Tags)), entry.CreatedAt, entry.UpdatedAt)
	if err != nil {
		return &PersistenceError{Op: "insert", Err: err}
	}
	return nil
}

// InsertBatch inserts all entries inside one transaction. Either every row
// lands or none do; the resume import depends on that to avoid silent partial
// imports.
func (s *PostgresEntryStore) InsertBatch(ctx context.Context, entries []models.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range entries {
		e := &entries[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		e.UpdatedAt = e.CreatedAt

		_, err = tx.ExecContext(ctx, `
			INSERT INTO journal_entries (id, user_id, title, content, category, tags, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, e.ID, e.UserID, e.Title, e.Content, nullIfEmpty(e.Category),
			pq.Array([]string(e.Tags)), e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return &PersistenceError{Op: "insert", Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return &PersistenceError{Op: "commit", Err: err}
	}
	return nil
}

// Get returns one entry if it exists and belongs to the owner.
func (s *PostgresEntryStore) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.JournalEntry, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT `+entryColumns+`
		FROM journal_entries
		WHERE id = $1 AND user_id = $2
	`, id, ownerID)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	return entry, nil
}

// Update rewrites title, content, category and tags and refreshes updated_at.
// created_at and owner are immutable. Returns sql.ErrNoRows when the entry is
// missing or owned by someone else.
func (s *PostgresEntryStore) Update(ctx context.Context, ownerID uuid.UUID, entry *models.JournalEntry) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE journal_entries
		SET title = $1, content = $2, category = $3, tags = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
	`, entry.Title, entry.Content, nullIfEmpty(entry.Category),
		pq.Array([]string(entry.Tags)), entry.ID, ownerID)
	if err != nil {
		return &PersistenceError{Op: "update", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "update", Err: err}
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an entry owned by the caller. Returns sql.ErrNoRows when
// nothing matched.
func (s *PostgresEntryStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM journal_entries WHERE id = $1 AND user_id = $2
	`, id, ownerID)
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	var category sql.NullString
	var tags []string

	err := row.Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Content,
		&category, pq.Array(&tags), &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}
	entry.Category = category.String
	entry.Tags = models.TagList(tags)
	if entry.Tags == nil {
		entry.Tags = models.TagList{}
	}
	return &entry, nil
}

func scanEntries(rows *sql.Rows) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "scan", Err: err}
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "scan", Err: err}
	}
	return entries, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
