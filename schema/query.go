package schema

import "time"

// Query describes a bug report handed to the retrieval engine and the
// similarity matcher. Every field is optional; zero values mean "not
// provided" and defaults apply downstream.
type Query struct {
	BugID              string    `json:"bug_id,omitempty"`
	Category           BugCategory `json:"category,omitempty"`
	ErrorFile          string    `json:"error_file,omitempty"`
	StackTraceFiles    []string  `json:"stack_trace_files,omitempty"`
	ErrorKeywords      []string  `json:"error_keywords,omitempty"`
	ErrorMessage       string    `json:"error_message,omitempty"`
	Timestamp          time.Time `json:"timestamp,omitzero"`
	MaxTokens          int       `json:"max_tokens,omitempty"`
	ExpectedFiles      []string  `json:"expected_files,omitempty"`
	TemporalSpreadDays float64   `json:"temporal_spread_days,omitempty"`
}

// Keywords returns the search terms of the query: explicit error keywords
// plus the words of the error message, lowercased.
func (q *Query) Keywords() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(w string) {
		w = normalizeKeyword(w)
		if w == "" {
			return
		}
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, k := range q.ErrorKeywords {
		add(k)
	}
	for _, w := range splitWords(q.ErrorMessage) {
		add(w)
	}
	return out
}
