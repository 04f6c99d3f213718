package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GeneratedSummary is the structured output of the summary pipeline. It is
// built once per request from the model reply; the history collection keeps a
// copy but nothing in the request path depends on it being there.
type GeneratedSummary struct {
	Overview        string   `json:"overview" bson:"overview"`
	Insights        []string `json:"insights" bson:"insights"`
	Achievements    []string `json:"achievements" bson:"achievements"`
	Technologies    []string `json:"technologies" bson:"technologies"`
	Recommendations []string `json:"recommendations" bson:"recommendations"`
}

// SummaryRecord is one saved summary in the Mongo history collection.
type SummaryRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Summary   GeneratedSummary   `bson:"summary" json:"summary"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
