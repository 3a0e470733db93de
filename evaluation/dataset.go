package evaluation

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
)

// LabeledReview is one row of the evaluation dataset.
type LabeledReview struct {
	Review    string
	TrueStars int
}

// LoadDataset reads a labeled CSV. Header names are matched case-insensitively
// and loosely: the review column may be called text/review, the label column
// stars/rating.
func LoadDataset(path string) ([]LabeledReview, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	reviewCol, starsCol := -1, -1
	for i, name := range records[0] {
		low := strings.ToLower(strings.TrimSpace(name))
		switch {
		case low == "text" || low == "review":
			reviewCol = i
		case strings.Contains(low, "review") && reviewCol == -1:
			reviewCol = i
		case low == "stars":
			starsCol = i
		case (strings.Contains(low, "star") || strings.Contains(low, "rating")) && starsCol == -1:
			starsCol = i
		}
	}
	if reviewCol == -1 || starsCol == -1 {
		return nil, fmt.Errorf("dataset %s: could not find review and stars columns in header %v", path, records[0])
	}

	out := make([]LabeledReview, 0, len(records)-1)
	for _, rec := range records[1:] {
		if reviewCol >= len(rec) || starsCol >= len(rec) {
			continue
		}
		stars, err := strconv.Atoi(strings.TrimSpace(rec[starsCol]))
		if err != nil {
			continue
		}
		out = append(out, LabeledReview{Review: rec[reviewCol], TrueStars: stars})
	}
	return out, nil
}

// Sample draws up to n rows with a fixed seed so every harness run scores the
// same rows.
func Sample(rows []LabeledReview, n int, seed int64) []LabeledReview {
	if n > len(rows) {
		n = len(rows)
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(rows))
	out := make([]LabeledReview, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, rows[idx])
	}
	return out
}
