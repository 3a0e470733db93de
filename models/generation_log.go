package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerationLog stores one LLM generation attempt (system monitoring purpose).
// Collection: generation_logs
type GenerationLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubmissionID string             `bson:"submission_id" json:"submission_id"`
	Artifact     string             `bson:"artifact" json:"artifact"`
	ModelName    string             `bson:"model_name" json:"model_name"`
	Success      bool               `bson:"success" json:"success"`
	DurationMs   int64              `bson:"duration_ms" json:"duration_ms"`
	ErrorMessage *string            `bson:"error_message,omitempty" json:"error_message,omitempty"`
	ResponseText string             `bson:"response_text" json:"response_text"`
	RequestedAt  time.Time          `bson:"requested_at" json:"requested_at"`
	CompletedAt  time.Time          `bson:"completed_at" json:"completed_at"`
}
