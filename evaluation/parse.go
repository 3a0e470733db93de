package evaluation

import (
	"encoding/json"
	"strconv"
	"strings"
)

// prediction mirrors the JSON object the templates request.
type prediction struct {
	PredictedStars any    `json:"predicted_stars"`
	Explanation    string `json:"explanation"`
}

// ExtractPrediction parses a raw model output by taking the substring from
// the first '{' to the last '}' and JSON-decoding it. The result is valid
// only when predicted_stars is an integer in [1,5]; numeric strings are
// coerced as a fallback before the row is marked invalid. Leading or trailing
// non-JSON text (e.g. a sentiment line) is ignored.
func ExtractPrediction(raw string) (int, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return 0, false
	}

	var p prediction
	if err := json.Unmarshal([]byte(raw[start:end+1]), &p); err != nil {
		return 0, false
	}

	switch v := p.PredictedStars.(type) {
	case float64:
		n := int(v)
		if float64(n) == v && inRange(n) {
			return n, true
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && inRange(n) {
			return n, true
		}
	}
	return 0, false
}

func inRange(n int) bool { return n >= 1 && n <= 5 }
