// Package evaluation measures which prompt template best predicts a star
// rating from review text. It runs a fixed reproducible sample through each
// candidate template, checks structured-output validity, and scores
// prediction accuracy over the valid rows.
package evaluation

import (
	"context"

	"review-desk/gateway"
	"review-desk/internal/logger"
	"review-desk/quota"
)

// Generator is the slice of the gateway the harness needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts gateway.GenerateOptions) gateway.Result
}

// Outcome is one model output aligned with one sampled review.
type Outcome struct {
	Raw       string
	Predicted *int
	Valid     bool
}

// TemplateRun holds a template's outcomes, one per sampled row.
type TemplateRun struct {
	Template PromptTemplate
	Outcomes []Outcome
}

// TemplateReport is one row of the final comparison table. Accuracy is nil
// when no row was valid: undefined, not zero.
type TemplateReport struct {
	Name          string
	SampleSize    int
	ValidCount    int
	JSONValidRate float64
	Accuracy      *float64
}

type Harness struct {
	gen     Generator
	limiter *quota.Limiter
}

// NewHarness pairs a generator with a call-pacing limiter. A nil limiter
// disables pacing (used in tests).
func NewHarness(gen Generator, limiter *quota.Limiter) *Harness {
	return &Harness{gen: gen, limiter: limiter}
}

// Run evaluates every template against the sample. Calls use temperature 0
// for deterministic sampling and are paced by the limiter. A gateway failure
// or parse failure marks the row invalid; it never aborts the batch.
func (h *Harness) Run(ctx context.Context, sample []LabeledReview, templates []PromptTemplate) ([]TemplateRun, error) {
	opts := gateway.GenerateOptions{Temperature: 0}

	runs := make([]TemplateRun, 0, len(templates))
	for _, tpl := range templates {
		logger.Log.Infof("evaluating template %s over %d rows", tpl.Name, len(sample))
		run := TemplateRun{Template: tpl, Outcomes: make([]Outcome, 0, len(sample))}

		for _, row := range sample {
			if h.limiter != nil {
				allowed, err := h.limiter.WaitAndReserve(ctx)
				if err != nil {
					return nil, err
				}
				if !allowed {
					logger.Log.Warnf("daily call quota exhausted during template %s", tpl.Name)
					run.Outcomes = append(run.Outcomes, Outcome{})
					continue
				}
			}

			res := h.gen.Generate(ctx, tpl.Format(row.Review), opts)
			out := Outcome{Raw: res.Text}
			// A failed generation still occupies its aligned slot; the
			// error-marked text simply never parses as a prediction.
			if n, ok := ExtractPrediction(res.Text); ok {
				out.Predicted = &n
				out.Valid = true
			}
			run.Outcomes = append(run.Outcomes, out)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Score reduces one template run against the sample's true labels.
func Score(run TemplateRun, sample []LabeledReview) TemplateReport {
	report := TemplateReport{
		Name:       run.Template.Name,
		SampleSize: len(run.Outcomes),
	}
	if report.SampleSize == 0 {
		return report
	}

	correct := 0
	for i, out := range run.Outcomes {
		if !out.Valid || out.Predicted == nil {
			continue
		}
		report.ValidCount++
		if i < len(sample) && *out.Predicted == sample[i].TrueStars {
			correct++
		}
	}
	report.JSONValidRate = float64(report.ValidCount) / float64(report.SampleSize)
	if report.ValidCount > 0 {
		acc := float64(correct) / float64(report.ValidCount)
		report.Accuracy = &acc
	}
	return report
}
