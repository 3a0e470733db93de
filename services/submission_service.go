package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"review-desk/enricher"
	"review-desk/internal/logger"
	"review-desk/models"
	"review-desk/repositories"
)

// ErrEmptyReview rejects a submission before any identity assignment or
// gateway call is made. A submitter mistake, not a system fault.
var ErrEmptyReview = errors.New("review must not be empty")

// ErrInvalidRating rejects ratings outside [1,5].
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// SubmissionService orchestrates validation, enrichment, identity assignment
// and durable append for incoming submissions, plus the admin read/aggregate/
// re-run operations.
type SubmissionService struct {
	store     repositories.SubmissionStore
	backup    repositories.SubmissionStore
	enricher  *enricher.Enricher
	genLogs   *repositories.GenerationLogRepository
	modelName string
}

func NewSubmissionService(store, backup repositories.SubmissionStore, enr *enricher.Enricher, genLogs *repositories.GenerationLogRepository, modelName string) *SubmissionService {
	return &SubmissionService{store: store, backup: backup, enricher: enr, genLogs: genLogs, modelName: modelName}
}

type SubmitInput struct {
	Rating int
	Review string
}

// SubmitResult carries the persisted record back to the caller for immediate
// display. Degraded marks the local-backup write path; the submission is then
// not yet visible to primary store readers until manually reconciled.
type SubmitResult struct {
	Submission models.Submission
	Degraded   bool
	Warning    string
}

// Submit runs one submission through the pipeline:
// Received -> Validated -> Enriched -> Persisted, falling back to the local
// backup log when the primary append fails. A user review is never lost to a
// transient store outage.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	if strings.TrimSpace(in.Review) == "" {
		return nil, ErrEmptyReview
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	start := time.Now()
	arts := s.enricher.Enrich(ctx, in.Review, in.Rating)

	sub := models.Submission{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Rating:     in.Rating,
		Review:     in.Review,
		AIResponse: arts.Reply.Text,
		AISummary:  arts.Summary.Text,
		AIActions:  arts.Actions.Text,
	}

	s.logGeneration(ctx, sub.ID, arts, start)

	if err := s.store.Append(ctx, &sub); err != nil {
		logger.ErrorWithFields("primary store append failed, writing local backup", logger.Fields{
			"submission_id": sub.ID,
			"error":         err.Error(),
		})
		if s.backup == nil {
			return nil, fmt.Errorf("persist submission %s: %w", sub.ID, err)
		}
		if backupErr := s.backup.Append(ctx, &sub); backupErr != nil {
			return nil, fmt.Errorf("persist submission %s: primary: %v; backup: %w", sub.ID, err, backupErr)
		}
		return &SubmitResult{
			Submission: sub,
			Degraded:   true,
			Warning:    "primary store unavailable; submission saved to local backup",
		}, nil
	}

	return &SubmitResult{Submission: sub}, nil
}

// logGeneration records one monitoring entry per artifact. Best effort; a
// logging failure never affects the pipeline outcome.
func (s *SubmissionService) logGeneration(ctx context.Context, submissionID string, arts enricher.Artifacts, start time.Time) {
	if s.genLogs == nil {
		return
	}
	entries := []struct {
		artifact string
		result   enricher.Artifact
	}{
		{"reply", arts.Reply},
		{"summary", arts.Summary},
		{"actions", arts.Actions},
	}
	now := time.Now()
	for _, e := range entries {
		log := models.GenerationLog{
			SubmissionID: submissionID,
			Artifact:     e.artifact,
			ModelName:    s.modelName,
			Success:      e.result.Generated,
			DurationMs:   now.Sub(start).Milliseconds(),
			ResponseText: truncate(e.result.Text, 200),
			RequestedAt:  start,
			CompletedAt:  now,
		}
		if !e.result.Generated {
			msg := "generation failed; fallback value used"
			log.ErrorMessage = &msg
		}
		if _, err := s.genLogs.Insert(ctx, log); err != nil {
			logger.Log.Warnf("failed to insert generation log for %s/%s: %v", submissionID, e.artifact, err)
		}
	}
}

// List returns all submissions in insertion order.
func (s *SubmissionService) List(ctx context.Context) ([]models.Submission, error) {
	return s.store.ListAll(ctx)
}

// Get returns one submission by id.
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	return s.store.FindByID(ctx, id)
}

// Rerun regenerates the two mutable artifacts for one submission and updates
// only the fields whose regeneration succeeded. Returns the refreshed record.
func (s *SubmissionService) Rerun(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, actions := s.enricher.Refresh(ctx, sub.Review)
	updates := map[string]string{}
	if summary.Generated {
		updates["ai_summary"] = summary.Text
		sub.AISummary = summary.Text
	}
	if actions.Generated {
		updates["ai_actions"] = actions.Text
		sub.AIActions = actions.Text
	}
	if len(updates) == 0 {
		return sub, nil
	}

	ok, err := s.store.UpdateFieldsByID(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return sub, nil
}

// SummaryRow is one line of the latest-summaries admin view.
type SummaryRow struct {
	Timestamp time.Time `json:"timestamp"`
	Rating    int       `json:"rating"`
	AISummary string    `json:"ai_summary"`
}

// Stats aggregates the store for the admin dashboard. AverageRating is nil
// when the store is empty.
type Stats struct {
	Total           int          `json:"total"`
	AverageRating   *float64     `json:"average_rating,omitempty"`
	Distribution    map[int]int  `json:"distribution"`
	LatestSummaries []SummaryRow `json:"latest_summaries"`
}

func (s *SubmissionService) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &Stats{
		Total:        len(rows),
		Distribution: map[int]int{},
	}

	ratings := make([]float64, 0, len(rows))
	for _, r := range rows {
		out.Distribution[r.Rating]++
		ratings = append(ratings, float64(r.Rating))
	}
	if len(ratings) > 0 {
		if mean, err := stats.Mean(ratings); err == nil {
			out.AverageRating = &mean
		}
	}

	newest := make([]models.Submission, len(rows))
	copy(newest, rows)
	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].Timestamp.After(newest[j].Timestamp)
	})
	limit := 10
	if len(newest) < limit {
		limit = len(newest)
	}
	out.LatestSummaries = make([]SummaryRow, 0, limit)
	for _, r := range newest[:limit] {
		out.LatestSummaries = append(out.LatestSummaries, SummaryRow{
			Timestamp: r.Timestamp,
			Rating:    r.Rating,
			AISummary: r.AISummary,
		})
	}
	return out, nil
}

func truncate(s string, max int) string {
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	return string(rs[:max])
}
