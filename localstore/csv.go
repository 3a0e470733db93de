// Package localstore implements the submission store contract over a local
// CSV file with the fixed schema header. It backs two uses: the durable
// backup log for the degraded write path, and a standalone store for
// deployments without a remote database.
package localstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"review-desk/models"
	"review-desk/repositories"
)

type CSVStore struct {
	path string
}

func New(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Path() string { return s.path }

// ensureHeader creates the file with the schema header row when it does not
// exist yet. Called before every write so the first append always lands under
// a header.
func (s *CSVStore) ensureHeader() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *CSVStore) readAll() ([]models.Submission, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Submission{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(records) <= 1 {
		return []models.Submission{}, nil
	}

	out := make([]models.Submission, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, decodeRow(rec))
	}
	return out, nil
}

// decodeRow materializes the full expected column set even from a short row.
func decodeRow(rec []string) models.Submission {
	cell := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}
	ts, _ := time.Parse(time.RFC3339, cell(1))
	rating, _ := strconv.Atoi(cell(2))
	return models.Submission{
		ID:         cell(0),
		Timestamp:  ts,
		Rating:     rating,
		Review:     cell(3),
		AIResponse: cell(4),
		AISummary:  cell(5),
		AIActions:  cell(6),
	}
}

// ListAll returns all rows in file order (insertion order).
func (s *CSVStore) ListAll(ctx context.Context) ([]models.Submission, error) {
	return s.readAll()
}

// FindByID scans the file for the row matching id.
func (s *CSVStore) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	rows, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID == id {
			return &rows[i], nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Append writes one row to the end of the file, creating the header first if
// the file is new.
func (s *CSVStore) Append(ctx context.Context, sub *models.Submission) error {
	if err := s.ensureHeader(); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s for append: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sub.Row()); err != nil {
		return fmt.Errorf("append submission %s: %w", sub.ID, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("append submission %s: %w", sub.ID, err)
	}
	return nil
}

// UpdateFieldsByID rewrites the file with the matching row's mutable fields
// replaced. Unknown and immutable columns are ignored; row order is preserved.
func (s *CSVStore) UpdateFieldsByID(ctx context.Context, id string, updates map[string]string) (bool, error) {
	rows, err := s.readAll()
	if err != nil {
		return false, err
	}

	found := false
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		found = true
		for _, col := range models.Columns {
			val, ok := updates[col]
			if !ok || !models.IsMutable(col) {
				continue
			}
			applyField(&rows[i], col, val)
		}
		break
	}
	if !found {
		return false, nil
	}

	if err := s.rewrite(rows); err != nil {
		return false, err
	}
	return true, nil
}

func applyField(sub *models.Submission, col, val string) {
	switch col {
	case "ai_summary":
		sub.AISummary = val
	case "ai_actions":
		sub.AIActions = val
	}
}

func (s *CSVStore) rewrite(rows []models.Submission) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, sub := range rows {
		if err := w.Write(sub.Row()); err != nil {
			f.Close()
			return fmt.Errorf("write row %s: %w", sub.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

var _ repositories.SubmissionStore = (*CSVStore)(nil)
