package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

type stubGenerator struct {
	calls     int
	responses []*genai.GenerateContentResponse
	errs      []error
}

func (s *stubGenerator) generateContent(ctx context.Context, model, prompt string, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := s.calls
	s.calls++
	var resp *genai.GenerateContentResponse
	var err error
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	if i < len(s.errs) {
		err = s.errs[i]
	}
	return resp, err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func testPolicy(attempts int) RetryPolicy {
	// Zero delays keep the retry loop instant under test.
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: 0, Multiplier: 2, MaxDelay: 0}
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubGenerator{responses: []*genai.GenerateContentResponse{textResponse("a friendly reply")}}
	gw := &Gateway{gen: stub, model: "test-model", retry: testPolicy(3)}

	res := gw.Generate(context.Background(), "prompt", GenerateOptions{})
	assert.True(t, res.OK)
	assert.Equal(t, "a friendly reply", res.Text)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	stub := &stubGenerator{
		responses: []*genai.GenerateContentResponse{nil, textResponse("recovered")},
		errs:      []error{errors.New("transient transport failure"), nil},
	}
	gw := &Gateway{gen: stub, model: "test-model", retry: testPolicy(3)}

	res := gw.Generate(context.Background(), "prompt", GenerateOptions{})
	assert.True(t, res.OK)
	assert.Equal(t, "recovered", res.Text)
	assert.Equal(t, 2, stub.calls)
}

func TestGenerateExhaustsRetries(t *testing.T) {
	boom := errors.New("connection refused")
	stub := &stubGenerator{errs: []error{boom, boom, boom}}
	gw := &Gateway{gen: stub, model: "test-model", retry: testPolicy(3)}

	res := gw.Generate(context.Background(), "prompt", GenerateOptions{})
	assert.False(t, res.OK)
	assert.True(t, strings.HasPrefix(res.Text, ErrorPrefix))
	assert.Contains(t, res.Text, "3 attempts")
	assert.Equal(t, 3, stub.calls)
}

func TestGenerateUnrecognizedShapeDoesNotRetry(t *testing.T) {
	// A well-formed transport response with no usable text is a shape
	// mismatch, not a transient fault.
	stub := &stubGenerator{responses: []*genai.GenerateContentResponse{{}}}
	gw := &Gateway{gen: stub, model: "test-model", retry: testPolicy(3)}

	res := gw.Generate(context.Background(), "prompt", GenerateOptions{})
	assert.False(t, res.OK)
	assert.True(t, strings.HasPrefix(res.Text, ErrorPrefix))
	assert.Contains(t, res.Text, "unrecognized response shape")
	assert.Equal(t, 1, stub.calls)
}

func TestExtractText(t *testing.T) {
	text, err := extractText(textResponse("hello"))
	assert.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = extractText(nil)
	var shapeErr *UnrecognizedResponseError
	assert.ErrorAs(t, err, &shapeErr)

	_, err = extractText(&genai.GenerateContentResponse{})
	assert.ErrorAs(t, err, &shapeErr)
}

func TestExtractCandidatePartsJoinsFragments(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: "part one, "}, {Text: "part two"}}}},
		},
	}
	text, ok := extractCandidateParts(resp)
	assert.True(t, ok)
	assert.Equal(t, "part one, part two", text)
}
