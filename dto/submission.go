package dto

import (
	"time"

	"review-desk/models"
	"review-desk/services"
)

// SubmitRequest is the submission payload from the user dashboard.
type SubmitRequest struct {
	Rating int    `json:"rating" binding:"required,min=1,max=5"`
	Review string `json:"review"`
}

// SubmissionDTO is the wire shape of one persisted submission.
type SubmissionDTO struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	Rating     int       `json:"rating"`
	Review     string    `json:"review"`
	AIResponse string    `json:"ai_response"`
	AISummary  string    `json:"ai_summary"`
	AIActions  string    `json:"ai_actions"`
}

func NewSubmissionDTO(s models.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:         s.ID,
		Timestamp:  s.Timestamp,
		Rating:     s.Rating,
		Review:     s.Review,
		AIResponse: s.AIResponse,
		AISummary:  s.AISummary,
		AIActions:  s.AIActions,
	}
}

// SubmitResponse returns the enriched record for immediate display. Degraded
// is set when the record went to the local backup instead of the primary
// store.
type SubmitResponse struct {
	Submission SubmissionDTO `json:"submission"`
	Degraded   bool          `json:"degraded"`
	Warning    string        `json:"warning,omitempty"`
}

func NewSubmitResponse(r *services.SubmitResult) SubmitResponse {
	return SubmitResponse{
		Submission: NewSubmissionDTO(r.Submission),
		Degraded:   r.Degraded,
		Warning:    r.Warning,
	}
}
