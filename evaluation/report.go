package evaluation

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteReports saves the comparison table (summary_table.csv) and the full
// per-row outputs (eval_full.csv) to the output directory.
func WriteReports(dir string, sample []LabeledReview, runs []TemplateRun, reports []TemplateReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := writeSummaryTable(filepath.Join(dir, "summary_table.csv"), reports); err != nil {
		return err
	}
	return writeFullOutputs(filepath.Join(dir, "eval_full.csv"), sample, runs)
}

func writeSummaryTable(path string, reports []TemplateReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"approach", "accuracy", "json_valid_rate"}); err != nil {
		return err
	}
	for _, r := range reports {
		accuracy := ""
		if r.Accuracy != nil {
			accuracy = strconv.FormatFloat(*r.Accuracy, 'f', 4, 64)
		}
		row := []string{
			r.Name,
			accuracy,
			strconv.FormatFloat(r.JSONValidRate, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeFullOutputs(path string, sample []LabeledReview, runs []TemplateRun) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	header := []string{"review", "true_stars"}
	for _, run := range runs {
		header = append(header,
			"raw_"+run.Template.Name,
			"pred_"+run.Template.Name,
			"valid_"+run.Template.Name,
		)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range sample {
		rec := []string{row.Review, strconv.Itoa(row.TrueStars)}
		for _, run := range runs {
			raw, pred, valid := "", "", "false"
			if i < len(run.Outcomes) {
				out := run.Outcomes[i]
				raw = out.Raw
				if out.Predicted != nil {
					pred = strconv.Itoa(*out.Predicted)
				}
				valid = strconv.FormatBool(out.Valid)
			}
			rec = append(rec, raw, pred, valid)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
