package enricher_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"review-desk/enricher"
	"review-desk/gateway"
)

// scriptedGenerator answers by prompt keyword; unmatched prompts fail.
type scriptedGenerator struct {
	calls   int
	answers map[string]string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string, opts gateway.GenerateOptions) gateway.Result {
	g.calls++
	for key, text := range g.answers {
		if strings.Contains(prompt, key) {
			return gateway.Result{OK: true, Text: text}
		}
	}
	return gateway.Result{OK: false, Text: gateway.ErrorPrefix + "generation failed after 3 attempts"}
}

func TestEnrichAllGenerated(t *testing.T) {
	gen := &scriptedGenerator{answers: map[string]string{
		"friendly reply":     "Thanks so much, we hope to see you again!",
		"one short sentence": "Customer enjoyed the meal.",
		"recommended actions": "- Keep up the good work.",
	}}
	e := enricher.New(gen)

	arts := e.Enrich(context.Background(), "Lovely dinner, great staff.", 5)
	assert.True(t, arts.Reply.Generated)
	assert.True(t, arts.Summary.Generated)
	assert.True(t, arts.Actions.Generated)
	assert.Equal(t, "Thanks so much, we hope to see you again!", arts.Reply.Text)
	assert.Equal(t, "Customer enjoyed the meal.", arts.Summary.Text)
	assert.Equal(t, "- Keep up the good work.", arts.Actions.Text)
	assert.Equal(t, 3, gen.calls)
}

func TestEnrichAllFallbacks(t *testing.T) {
	review := "Service was very slow and the table was dirty."
	gen := &scriptedGenerator{} // every call fails
	e := enricher.New(gen)

	arts := e.Enrich(context.Background(), review, 2)

	assert.False(t, arts.Reply.Generated)
	assert.Equal(t, enricher.ReplyFallback, arts.Reply.Text)

	// Under 200 chars the summary fallback is the review text unmodified.
	assert.False(t, arts.Summary.Generated)
	assert.Equal(t, review, arts.Summary.Text)

	assert.False(t, arts.Actions.Generated)
	assert.Equal(t, "- Investigate service speed and staffing.", arts.Actions.Text)
}

func TestEnrichOneFailureDoesNotBlockOthers(t *testing.T) {
	gen := &scriptedGenerator{answers: map[string]string{
		"one short sentence": "Summary line.",
		"recommended actions": "- An action.",
	}}
	e := enricher.New(gen)

	arts := e.Enrich(context.Background(), "The soup was cold.", 1)
	assert.False(t, arts.Reply.Generated)
	assert.Equal(t, enricher.ReplyFallback, arts.Reply.Text)
	assert.True(t, arts.Summary.Generated)
	assert.True(t, arts.Actions.Generated)
	assert.Equal(t, 3, gen.calls)
}

func TestFallbackSummaryTruncates(t *testing.T) {
	long := strings.Repeat("x", 350)
	got := enricher.FallbackSummary("  " + long + "  ")
	assert.Equal(t, 200, len([]rune(got)))
	assert.Equal(t, strings.Repeat("x", 200), got)

	short := "Just fine."
	assert.Equal(t, short, enricher.FallbackSummary(short))
}

func TestFallbackActionsRules(t *testing.T) {
	// Single rule match.
	got := enricher.FallbackActions("The waiter was very SLOW today")
	assert.Equal(t, "- Investigate service speed and staffing.", got)

	// Multiple rules concatenate in declaration order.
	got = enricher.FallbackActions("Food arrived cold and the staff was rude, plus a long wait.")
	assert.Equal(t, strings.Join([]string{
		"- Investigate service speed and staffing.",
		"- Check food preparation & temperature controls.",
		"- Provide staff training on customer service.",
	}, "\n"), got)

	// No rule matched.
	got = enricher.FallbackActions("Perfectly average experience.")
	assert.Equal(t, "- Thank the customer and ask for more details.", got)
}

func TestRefreshOnlyReturnsGeneratedFields(t *testing.T) {
	gen := &scriptedGenerator{answers: map[string]string{
		"Summarize this review": "Fresh summary.",
	}}
	e := enricher.New(gen)

	summary, actions := e.Refresh(context.Background(), "Great place.")
	assert.True(t, summary.Generated)
	assert.Equal(t, "Fresh summary.", summary.Text)
	assert.False(t, actions.Generated)
	assert.Empty(t, actions.Text)
}
