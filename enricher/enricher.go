// Package enricher derives the three AI artifacts (reply, summary, action
// list) for a review. Each artifact comes from an independent gateway call
// with its own deterministic fallback, so one failed generation never blocks
// or invalidates the other two.
package enricher

import (
	"context"
	"fmt"
	"strings"

	"review-desk/gateway"
)

// ReplyFallback is the fixed reply used when generation fails.
const ReplyFallback = "Thanks for your feedback! We appreciate you taking the time to write us. (AI currently unavailable.)"

// SummaryFallbackLimit bounds the truncated-review summary fallback.
const SummaryFallbackLimit = 200

const defaultActionBullet = "- Thank the customer and ask for more details."

// actionRules are evaluated independently in declaration order; every match
// contributes one bullet.
var actionRules = []struct {
	keywords []string
	bullet   string
}{
	{[]string{"slow", "wait", "waiting", "delay"}, "- Investigate service speed and staffing."},
	{[]string{"cold", "undercooked", "burnt", "temperature"}, "- Check food preparation & temperature controls."},
	{[]string{"rude", "unfriendly", "hostile"}, "- Provide staff training on customer service."},
}

// Generator is the slice of the gateway the enricher needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts gateway.GenerateOptions) gateway.Result
}

// Artifact is one derived text field. Generated is false when the value is a
// rule-based fallback rather than model output.
type Artifact struct {
	Text      string
	Generated bool
}

// Artifacts holds the three derived fields of a submission.
type Artifacts struct {
	Reply   Artifact
	Summary Artifact
	Actions Artifact
}

type Enricher struct {
	gen  Generator
	opts gateway.GenerateOptions
}

func New(gen Generator) *Enricher {
	return &Enricher{
		gen:  gen,
		opts: gateway.GenerateOptions{Temperature: 0, MaxOutputTokens: 250},
	}
}

// Enrich produces all three artifacts for a review. All fields are always
// populated; generation failures are replaced per-field by their fallbacks.
func (e *Enricher) Enrich(ctx context.Context, review string, rating int) Artifacts {
	var out Artifacts

	if res := e.gen.Generate(ctx, replyPrompt(review), e.opts); res.OK {
		out.Reply = Artifact{Text: res.Text, Generated: true}
	} else {
		out.Reply = Artifact{Text: ReplyFallback}
	}

	if res := e.gen.Generate(ctx, summaryPrompt(review), e.opts); res.OK {
		out.Summary = Artifact{Text: res.Text, Generated: true}
	} else {
		out.Summary = Artifact{Text: FallbackSummary(review)}
	}

	if res := e.gen.Generate(ctx, actionsPrompt(review), e.opts); res.OK {
		out.Actions = Artifact{Text: res.Text, Generated: true}
	} else {
		out.Actions = Artifact{Text: FallbackActions(review)}
	}

	return out
}

// Refresh regenerates the two mutable artifacts for the admin re-run. Fields
// whose generation failed come back with Generated=false and must not
// overwrite the persisted values.
func (e *Enricher) Refresh(ctx context.Context, review string) (summary, actions Artifact) {
	if res := e.gen.Generate(ctx, refreshSummaryPrompt(review), e.opts); res.OK {
		summary = Artifact{Text: res.Text, Generated: true}
	}
	if res := e.gen.Generate(ctx, refreshActionsPrompt(review), e.opts); res.OK {
		actions = Artifact{Text: res.Text, Generated: true}
	}
	return summary, actions
}

// FallbackSummary truncates the review to the summary length limit.
func FallbackSummary(review string) string {
	trimmed := strings.TrimSpace(review)
	rs := []rune(trimmed)
	if len(rs) <= SummaryFallbackLimit {
		return trimmed
	}
	return string(rs[:SummaryFallbackLimit])
}

// FallbackActions scans the lower-cased review against the ordered rule set
// and joins all matched bullets. With no match it asks for more detail.
func FallbackActions(review string) string {
	low := strings.ToLower(review)
	var bullets []string
	for _, rule := range actionRules {
		for _, kw := range rule.keywords {
			if strings.Contains(low, kw) {
				bullets = append(bullets, rule.bullet)
				break
			}
		}
	}
	if len(bullets) == 0 {
		return defaultActionBullet
	}
	return strings.Join(bullets, "\n")
}

func replyPrompt(review string) string {
	return fmt.Sprintf("Write a short friendly reply (1-2 sentences) to this review: %q", review)
}

func summaryPrompt(review string) string {
	return fmt.Sprintf("Summarize the review in one short sentence: %q", review)
}

func actionsPrompt(review string) string {
	return fmt.Sprintf("Give up to 3 recommended actions (bullet points) a business owner should take based on: %q", review)
}

func refreshSummaryPrompt(review string) string {
	return fmt.Sprintf("Summarize this review in one short sentence: %q", review)
}

func refreshActionsPrompt(review string) string {
	return fmt.Sprintf("Give up to 3 recommended actions (bullet points) for this review: %q", review)
}
