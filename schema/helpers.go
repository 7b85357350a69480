package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
)

// idLen is the hex length of node and pattern identifiers.
const idLen = 16

// hashID returns a short deterministic hex digest of the input.
func hashID(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:idLen]
}

// NodeID returns the deterministic node identifier for a logical path.
// Function nodes use "filepath::funcname" as their logical path.
func NodeID(logicalPath string) string {
	return hashID(logicalPath)
}

// maxSignatureFiles bounds how many sorted files feed a pattern signature.
const maxSignatureFiles = 100

// PatternSignature computes the deterministic identifier of a bug/fix pair:
// hash(category | first 100 sorted files | fix[:100]). Truncation keeps very
// long file lists and fix descriptions from producing distinct signatures for
// the same logical pattern. The bound applies to the file list, not the joined
// text, so sessions touching different files never share a signature.
func PatternSignature(category BugCategory, files []string, fix string) string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	if len(sorted) > maxSignatureFiles {
		sorted = sorted[:maxSignatureFiles]
	}
	if len(fix) > 100 {
		fix = fix[:100]
	}
	return hashID(string(category) + "|" + strings.Join(sorted, ",") + "|" + fix)
}

// fixFileRe matches "word.word" shaped tokens in free-text fix descriptions.
// This is a heuristic for file references, not a structural guarantee.
var fixFileRe = regexp.MustCompile(`\b[\w-]+\.[\w-]+\b`)

// FixTextFiles extracts file-looking tokens from a free-text fix description.
func FixTextFiles(fix string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range fixFileRe.FindAllString(fix, -1) {
		m = strings.ToLower(m)
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Jaccard computes the Jaccard index of two string sets.
// Two empty sets have similarity 0, not 1: an absent symptom list should not
// count as a perfect match.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[strings.ToLower(s)] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[strings.ToLower(s)] = struct{}{}
	}
	inter := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// wordRe splits free text into word tokens.
var wordRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]{2,}`)

// splitWords tokenizes free text into keyword candidates of length >= 3.
func splitWords(text string) []string {
	return wordRe.FindAllString(text, -1)
}

// normalizeKeyword lowercases and trims a keyword, dropping short tokens.
func normalizeKeyword(w string) string {
	w = strings.ToLower(strings.TrimSpace(w))
	if len(w) < 3 {
		return ""
	}
	return w
}

// UnionSorted merges two string sets into a sorted, deduplicated slice.
func UnionSorted(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		seen[s] = struct{}{}
	}
	for _, s := range b {
		seen[s] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
