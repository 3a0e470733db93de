package main

import (
	"context"
	"os"
	"strconv"

	"review-desk/config"
	"review-desk/evaluation"
	"review-desk/gateway"
	"review-desk/internal/logger"
	"review-desk/quota"
)

// evaluate runs the offline prompt comparison: a fixed sample of labeled
// reviews through each candidate template, scored for structured-output
// validity and star-prediction accuracy.
func main() {
	config.InitApp()
	logger.InitFromEnv("LOG_LEVEL")
	cfg := config.GetConfig()

	ctx := context.Background()

	apiKey, err := config.GeminiAPIKey()
	if err != nil {
		logger.Log.Errorf("gateway configuration error: %v", err)
		os.Exit(1)
	}
	gw, err := gateway.New(ctx, gateway.Config{
		APIKey: apiKey,
		Model:  cfg.GeminiModel,
		Retry:  gateway.RetryPolicyFromConfig(cfg.Retry),
	})
	if err != nil {
		logger.Log.Errorf("failed to construct gateway: %v", err)
		os.Exit(1)
	}

	rows, err := evaluation.LoadDataset(cfg.Eval.DatasetPath)
	if err != nil {
		logger.Log.Errorf("failed to load dataset: %v", err)
		os.Exit(1)
	}
	sampleSize := cfg.Eval.SampleSize
	if sampleSize <= 0 {
		sampleSize = 200
	}
	sample := evaluation.Sample(rows, sampleSize, cfg.Eval.Seed)
	logger.Log.Infof("evaluating %d templates over %d sampled rows", 3, len(sample))

	limiter := quota.New(cfg.Eval.RequestsPerMinute, 0)
	harness := evaluation.NewHarness(gw, limiter)

	templates := evaluation.DefaultTemplates()
	runs, err := harness.Run(ctx, sample, templates)
	if err != nil {
		logger.Log.Errorf("evaluation aborted: %v", err)
		os.Exit(1)
	}

	reports := make([]evaluation.TemplateReport, 0, len(runs))
	for _, run := range runs {
		report := evaluation.Score(run, sample)
		reports = append(reports, report)

		accuracy := "n/a"
		if report.Accuracy != nil {
			accuracy = formatRate(*report.Accuracy)
		}
		logger.Log.Infof("template=%s sample=%d valid=%d json_valid_rate=%s accuracy=%s",
			report.Name, report.SampleSize, report.ValidCount, formatRate(report.JSONValidRate), accuracy)
	}

	if err := evaluation.WriteReports(cfg.Eval.OutputDir, sample, runs, reports); err != nil {
		logger.Log.Errorf("failed to write reports: %v", err)
		os.Exit(1)
	}
	logger.Log.Infof("done, outputs saved to %s", cfg.Eval.OutputDir)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
