package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/devjournal/devjournal-backend/internal/models"
)

// SummaryHistory keeps generated summaries in Mongo so the summary page can
// show previous runs. Writes are best-effort from the pipeline's perspective.
type SummaryHistory struct {
	col *mongo.Collection
}

func NewSummaryHistory(db *mongo.Database) *SummaryHistory {
	return &SummaryHistory{col: db.Collection("summaries")}
}

// Save appends one generated summary to the caller's history.
func (h *SummaryHistory) Save(ctx context.Context, userID uuid.UUID, summary models.GeneratedSummary) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	record := models.SummaryRecord{
		UserID:    userID.String(),
		Summary:   summary,
		CreatedAt: time.Now().UTC(),
	}
	_, err := h.col.InsertOne(ctx, record)
	return err
}

// Latest returns the caller's most recent summaries, newest first.
func (h *SummaryHistory) Latest(ctx context.Context, userID uuid.UUID, limit int) ([]models.SummaryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.M{"created_at": -1})
	findOptions.SetLimit(int64(limit))

	cursor, err := h.col.Find(ctx, bson.M{"user_id": userID.String()}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := make([]models.SummaryRecord, 0)
	if err = cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
