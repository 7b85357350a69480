package memdb

import (
	"fmt"
	"math"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/bugtrail/bugtrail/schema"
)

// Similarity component weights. They intentionally sum to 0.8, so a perfect
// structural match still needs recency and a strong success record to score
// near 1.
const (
	categoryWeight = 0.3
	symptomWeight  = 0.3
	fileWeight     = 0.2
)

// RetrieveSimilarPatterns returns up to topK patterns whose similarity to the
// query clears the confidence threshold, best first. Candidates are
// over-fetched by frequency*success_rate, then rescored with symptom and file
// overlap, recency decay and the pattern's own success rate.
func (s *Store) RetrieveSimilarPatterns(query *schema.Query, repository string, topK int) ([]schema.PatternMatch, error) {
	if s.disabled() {
		return nil, nil
	}
	if topK <= 0 {
		topK = schema.DefaultTopK
	}

	cacheKey := similarityCacheKey(query, repository, topK)
	if cached, ok := s.similarityCache.Get(cacheKey); ok {
		return cached, nil
	}

	candidates, err := s.fetchCandidates(query.Category, repository, topK*schema.OverfetchFactor)
	if err != nil {
		return nil, err
	}

	queryFiles := queryFileSet(query)
	keywords := query.Keywords()
	now := time.Now()

	matches := make([]schema.PatternMatch, 0, len(candidates))
	for _, p := range candidates {
		sim := s.similarity(query.Category, keywords, queryFiles, &p, now)
		if sim < s.opts.ConfidenceThreshold {
			continue
		}
		matches = append(matches, schema.PatternMatch{Pattern: p, Similarity: sim})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].Pattern.PatternID < matches[j].Pattern.PatternID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}

	s.similarityCache.Put(cacheKey, matches)
	return matches, nil
}

// fetchCandidates pulls the strongest stored patterns for rescoring. Category
// filters exactly; repository filters against the JSON-encoded repository
// list, which is a containment approximation the rescoring pass tolerates.
func (s *Store) fetchCandidates(category schema.BugCategory, repository string, limit int) ([]schema.BugPattern, error) {
	var conds []string
	var args []any

	if category != "" {
		conds = append(conds, fmt.Sprintf("category = %s", s.placeholder(len(args)+1)))
		args = append(args, string(category))
	}
	if repository != "" {
		conds = append(conds, fmt.Sprintf("repositories LIKE %s", s.placeholder(len(args)+1)))
		args = append(args, "%\""+repository+"\"%")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM %s%s ORDER BY frequency * success_rate DESC, pattern_id LIMIT %d`,
		patternColumns, patternsTable, where, limit)
	return s.queryPatterns(query, args...)
}

// similarity scores one candidate against the query in [0,1].
func (s *Store) similarity(category schema.BugCategory, keywords []string, queryFiles []string, p *schema.BugPattern, now time.Time) float64 {
	score := 0.0
	if category != "" && category == p.Category {
		score += categoryWeight
	}
	score += symptomWeight * schema.Jaccard(keywords, p.Symptoms)
	score += fileWeight * schema.Jaccard(queryFiles, patternFixFiles(p))

	days := now.Sub(p.LastSeen).Hours() / 24
	if days < 0 {
		days = 0
	}
	decay := math.Pow(s.opts.DecayFactor, days/schema.DecayWindowDays)

	return score * decay * p.SuccessRate
}

// queryFileSet collects the file references of a query: the error file plus
// the stack trace frames. Paths reduce to base names because fix text refers
// to files by name, not by repository path.
func queryFileSet(query *schema.Query) []string {
	var files []string
	if query.ErrorFile != "" {
		files = append(files, path.Base(query.ErrorFile))
	}
	for _, f := range query.StackTraceFiles {
		files = append(files, path.Base(f))
	}
	return files
}

// patternFixFiles extracts file-looking tokens from all of a pattern's fixes.
func patternFixFiles(p *schema.BugPattern) []string {
	return schema.FixTextFiles(strings.Join(p.Fixes, " "))
}

// similarityCacheKey builds a deterministic memoization key for a query.
func similarityCacheKey(query *schema.Query, repository string, topK int) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		query.Category, query.ErrorFile, strings.Join(query.StackTraceFiles, ","),
		strings.Join(query.Keywords(), ","), repository, topK)
}
