package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// LabelCount is one label with how many entries carry it.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DayCount is one calendar day with how many entries were created on it.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DashboardStats is the payload behind the dashboard's stat cards and chart.
type DashboardStats struct {
	TotalEntries    int          `json:"total_entries"`
	EntriesThisWeek int          `json:"entries_this_week"`
	Categories      []LabelCount `json:"categories"`
	TopTags         []LabelCount `json:"top_tags"`
	EntriesPerDay   []DayCount   `json:"entries_per_day"`
}

// StatsService computes owner-scoped activity statistics with date-bucketed
// SQL. Everything is derived; nothing here is persisted.
type StatsService struct {
	DB *sql.DB
}

func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{DB: db}
}

// Dashboard returns the caller's stats. The per-day series covers the last 14
// days; days with no entries are omitted.
func (s *StatsService) Dashboard(ctx context.Context, ownerID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{
		Categories:    make([]LabelCount, 0),
		TopTags:       make([]LabelCount, 0),
		EntriesPerDay: make([]DayCount, 0),
	}

	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM journal_entries WHERE user_id = $1`, ownerID,
	).Scan(&stats.TotalEntries)
	if err != nil {
		return nil, &PersistenceError{Op: "count", Err: err}
	}

	now := time.Now().UTC()
	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM journal_entries
		WHERE user_id = $1 AND created_at >= $2
	`, ownerID, now.AddDate(0, 0, -7)).Scan(&stats.EntriesThisWeek)
	if err != nil {
		return nil, &PersistenceError{Op: "count", Err: err}
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT COALESCE(category, 'Uncategorized'), COUNT(*) AS c
		FROM journal_entries
		WHERE user_id = $1
		GROUP BY 1
		ORDER BY c DESC
	`, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	stats.Categories, err = scanLabelCounts(rows)
	if err != nil {
		return nil, err
	}

	rows, err = s.DB.QueryContext(ctx, `
		SELECT tag, COUNT(*) AS c
		FROM journal_entries, unnest(tags) AS tag
		WHERE user_id = $1
		GROUP BY tag
		ORDER BY c DESC
		LIMIT 10
	`, ownerID)
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	stats.TopTags, err = scanLabelCounts(rows)
	if err != nil {
		return nil, err
	}

	rows, err = s.DB.QueryContext(ctx, `
		SELECT (created_at)::date AS d, COUNT(*)
		FROM journal_entries
		WHERE user_id = $1 AND created_at >= $2
		GROUP BY (created_at)::date
		ORDER BY d
	`, ownerID, now.AddDate(0, 0, -14))
	if err != nil {
		return nil, &PersistenceError{Op: "select", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var d time.Time
		var c int
		if err := rows.Scan(&d, &c); err != nil {
			return nil, &PersistenceError{Op: "scan", Err: err}
		}
		stats.EntriesPerDay = append(stats.EntriesPerDay, DayCount{Date: d.Format("2006-01-02"), Count: c})
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "scan", Err: err}
	}

	return stats, nil
}

func scanLabelCounts(rows *sql.Rows) ([]LabelCount, error) {
	defer rows.Close()
	out := make([]LabelCount, 0)
	for rows.Next() {
		var lc LabelCount
		if err := rows.Scan(&lc.Label, &lc.Count); err != nil {
			return nil, &PersistenceError{Op: "scan", Err: err}
		}
		out = append(out, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "scan", Err: err}
	}
	return out, nil
}
