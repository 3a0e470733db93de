package evaluation

import "fmt"

// PromptTemplate is one candidate prompt design. Each instructs the model to
// emit a single strict JSON object {"predicted_stars": int, "explanation":
// string}; they differ only in instruction style.
type PromptTemplate struct {
	Name     string
	template string
}

// Format renders the prompt for one review.
func (t PromptTemplate) Format(review string) string {
	return fmt.Sprintf(t.template, review)
}

// DefaultTemplates returns the three candidate designs compared by the
// harness: direct instruction, few-shot examples, and
// chain-of-thought-then-JSON.
func DefaultTemplates() []PromptTemplate {
	return []PromptTemplate{
		{
			Name: "direct",
			template: `You are a concise assistant. Read the review and output EXACTLY a valid JSON object with keys:
{"predicted_stars": <integer 1-5>, "explanation":"<brief reason>"}
Return only the JSON object and nothing else.

Review:
"""%s"""`,
		},
		{
			Name: "few_shot",
			template: `You are an assistant that maps user reviews to 1-5 star ratings.
Examples:
Review: "Food was cold and service was slow." -> 1
Review: "Great food and friendly staff, would return." -> 4
Review: "Okay for price, not special." -> 3

Now read the review and output EXACTLY a JSON object: {"predicted_stars": <1-5>, "explanation":"<brief reason>"}. Nothing else.

Review:
"""%s"""`,
		},
		{
			Name: "chain_of_thought",
			template: `First output one short line with sentiment polarity and strength like:
Sentiment: positive (strength: high)
Then output EXACTLY a JSON object with keys {"predicted_stars" (1-5), "explanation"}. Do not output anything else.

Review:
"""%s"""`,
		},
	}
}
