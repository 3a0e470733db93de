package models

import (
	"strconv"
	"time"
)

// Columns is the fixed logical schema of a persisted submission, in column
// order. CSV encoding and field-level updates are both keyed on these names.
var Columns = []string{"id", "timestamp", "rating", "review", "ai_response", "ai_summary", "ai_actions"}

// MutableColumns are the only fields an admin re-run may overwrite.
var MutableColumns = []string{"ai_summary", "ai_actions"}

// Submission is one user review plus its AI-derived artifacts.
// Collection: submissions. The id field is the sole identity; it is assigned
// once at creation and never changes.
type Submission struct {
	ID         string    `bson:"id" json:"id"`
	Timestamp  time.Time `bson:"timestamp" json:"timestamp"`
	Rating     int       `bson:"rating" json:"rating"`
	Review     string    `bson:"review" json:"review"`
	AIResponse string    `bson:"ai_response" json:"ai_response"`
	AISummary  string    `bson:"ai_summary" json:"ai_summary"`
	AIActions  string    `bson:"ai_actions" json:"ai_actions"`
}

// Field returns the submission value for a logical column name.
func (s Submission) Field(column string) string {
	switch column {
	case "id":
		return s.ID
	case "timestamp":
		return s.Timestamp.UTC().Format(time.RFC3339)
	case "rating":
		return strconv.Itoa(s.Rating)
	case "review":
		return s.Review
	case "ai_response":
		return s.AIResponse
	case "ai_summary":
		return s.AISummary
	case "ai_actions":
		return s.AIActions
	}
	return ""
}

// Row encodes the submission as one CSV row in schema column order.
func (s Submission) Row() []string {
	row := make([]string, 0, len(Columns))
	for _, c := range Columns {
		row = append(row, s.Field(c))
	}
	return row
}

// IsMutable reports whether a column may be overwritten after creation.
func IsMutable(column string) bool {
	for _, c := range MutableColumns {
		if c == column {
			return true
		}
	}
	return false
}
