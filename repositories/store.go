package repositories

import (
	"context"
	"errors"

	"review-desk/models"
)

// ErrNotFound is returned by point lookups when no row matches the id.
var ErrNotFound = errors.New("submission not found")

// SubmissionStore is the append-only record store contract. The primary
// implementation is Mongo-backed (SubmissionRepository); localstore.CSVStore
// implements the same contract over a local file for degraded operation.
type SubmissionStore interface {
	// ListAll returns every submission in insertion order. An empty store
	// yields an empty slice, not an error.
	ListAll(ctx context.Context) ([]models.Submission, error)

	// FindByID returns the unique submission with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Submission, error)

	// Append durably appends one record. Existing rows are never reordered.
	// A failed write returns a descriptive error; it is never silently dropped.
	Append(ctx context.Context, s *models.Submission) error

	// UpdateFieldsByID overwrites the given mutable fields on the row matching
	// id, leaving all other fields and rows untouched. Unknown and immutable
	// column names are ignored. Returns false when no row matches. The row is
	// located against the latest store state at call time; nothing is cached
	// across calls.
	UpdateFieldsByID(ctx context.Context, id string, updates map[string]string) (bool, error)
}
