// Package gateway wraps the remote text-generation call behind a uniform
// (ok, text) contract. Transport failures are retried with bounded exponential
// backoff and never cross this boundary as errors; callers distinguish a real
// answer from a failure message by the fixed "ERROR: " prefix.
package gateway

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"review-desk/config"
	"review-desk/internal/logger"
)

// ErrorPrefix marks a failure payload in Result.Text.
const ErrorPrefix = "ERROR: "

// Result is the uniform outcome of one generation request.
type Result struct {
	OK   bool
	Text string
}

// GenerateOptions are the sampling parameters for one request.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32
}

// RetryPolicy bounds the retry loop. Delay grows by Multiplier after each
// failed attempt, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	MaxDelay    time.Duration
}

// DefaultRetryPolicy mirrors the service's production settings: 3 attempts,
// 500ms base delay doubling up to 4s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Multiplier: 2, MaxDelay: 4 * time.Second}
}

// RetryPolicyFromConfig builds a policy from config.yaml values, falling back
// to defaults for unset fields.
func RetryPolicyFromConfig(cfg config.RetryConfig) RetryPolicy {
	p := DefaultRetryPolicy()
	if cfg.MaxAttempts > 0 {
		p.MaxAttempts = cfg.MaxAttempts
	}
	if cfg.BaseDelayMs > 0 {
		p.BaseDelay = time.Duration(cfg.BaseDelayMs) * time.Millisecond
	}
	if cfg.Multiplier > 0 {
		p.Multiplier = cfg.Multiplier
	}
	if cfg.MaxDelayMs > 0 {
		p.MaxDelay = time.Duration(cfg.MaxDelayMs) * time.Millisecond
	}
	return p
}

// generator is the raw model call, kept behind an interface so tests can
// exercise the gateway without a network.
type generator interface {
	generateContent(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g *genaiGenerator) generateContent(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
}

// Config configures a Gateway instance.
type Config struct {
	APIKey string
	Model  string
	Retry  RetryPolicy
}

// Gateway is an explicitly constructed generation client. It is injected into
// the enricher and the evaluation harness; there is no ambient singleton.
type Gateway struct {
	gen   generator
	model string
	retry RetryPolicy
}

// New creates a Gateway backed by the Gemini SDK.
func New(ctx context.Context, cfg Config) (*Gateway, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryPolicy()
	}
	return &Gateway{gen: &genaiGenerator{client: client}, model: cfg.Model, retry: retry}, nil
}

// Generate issues one generation request with bounded retry. It never returns
// an error: after retry exhaustion or an unrecognized response shape the
// Result carries OK=false and an ErrorPrefix-marked text.
func (g *Gateway) Generate(ctx context.Context, prompt string, opts GenerateOptions) Result {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = opts.MaxOutputTokens
	}

	var lastErr error
	delay := g.retry.BaseDelay
	for attempt := 1; attempt <= g.retry.MaxAttempts; attempt++ {
		resp, err := g.gen.generateContent(ctx, g.model, prompt, cfg)
		if err == nil {
			text, extractErr := extractText(resp)
			if extractErr == nil {
				return Result{OK: true, Text: text}
			}
			// A malformed response is not a transport fault; retrying the
			// same request will not change its shape.
			logger.ErrorWithFields("generation returned unrecognized response shape", logger.Fields{
				"model":   g.model,
				"attempt": attempt,
				"error":   extractErr.Error(),
			})
			return Result{OK: false, Text: ErrorPrefix + extractErr.Error()}
		}

		lastErr = err
		logger.ErrorWithFields("generation transport failure", logger.Fields{
			"model":   g.model,
			"attempt": attempt,
			"error":   err.Error(),
		})
		if attempt == g.retry.MaxAttempts {
			break
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		delay = time.Duration(float64(delay) * g.retry.Multiplier)
		if delay > g.retry.MaxDelay {
			delay = g.retry.MaxDelay
		}
	}

	return Result{OK: false, Text: fmt.Sprintf("%sgeneration failed after %d attempts: %v", ErrorPrefix, g.retry.MaxAttempts, lastErr)}
}
