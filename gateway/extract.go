package gateway

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// UnrecognizedResponseError reports a generation response whose shape matched
// none of the known extractors. Carries enough prompt-independent detail to
// tell a shape mismatch apart from a transport error in the logs.
type UnrecognizedResponseError struct {
	Detail string
}

func (e *UnrecognizedResponseError) Error() string {
	return "unrecognized response shape: " + e.Detail
}

// An extractor attempts to normalize one known response shape to a string.
type extractor func(*genai.GenerateContentResponse) (string, bool)

// Shape matchers are tried in order; first match wins.
var extractors = []extractor{
	extractDirectText,
	extractCandidateParts,
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", &UnrecognizedResponseError{Detail: "nil response"}
	}
	for _, ex := range extractors {
		if text, ok := ex(resp); ok {
			return text, nil
		}
	}
	return "", &UnrecognizedResponseError{Detail: describe(resp)}
}

// extractDirectText uses the SDK's aggregated text accessor.
func extractDirectText(resp *genai.GenerateContentResponse) (string, bool) {
	t := resp.Text()
	return t, t != ""
}

// extractCandidateParts walks the first candidate's content parts and joins
// their text fragments.
func extractCandidateParts(resp *genai.GenerateContentResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return "", false
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String(), b.Len() > 0
}

func describe(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return "response carries no candidates"
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return fmt.Sprintf("candidate has no content (finish_reason=%v)", safeFinishReason(resp))
	}
	return fmt.Sprintf("candidate content has %d parts but no text (finish_reason=%v)", len(cand.Content.Parts), safeFinishReason(resp))
}

func safeFinishReason(resp *genai.GenerateContentResponse) genai.FinishReason {
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return ""
	}
	return resp.Candidates[0].FinishReason
}
