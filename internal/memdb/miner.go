package memdb

import (
	"sort"

	"github.com/bugtrail/bugtrail/schema"
)

// LearnFromBatch records every session in order, then mines the batch's
// successful sessions for recurring signatures and promotes any recurring
// signature that is still absent from the store. Because recording a
// successful session already creates its pattern, mining usually finds the
// signature persisted and promotes nothing; the second pass exists to catch
// patterns removed or recorded out of band between the two steps. Promoted
// patterns take the configured assumed success rate rather than one computed
// from the batch. Returns the number promoted.
func (s *Store) LearnFromBatch(sessions []*schema.DebugSession) (int, error) {
	if s.disabled() {
		return 0, nil
	}

	for _, session := range sessions {
		if err := s.RecordSession(session); err != nil {
			return 0, err
		}
	}

	groups := make(map[string][]*schema.DebugSession)
	for _, session := range sessions {
		if !session.Success {
			continue
		}
		sig := schema.PatternSignature(session.Category, session.FilesExamined, session.FixApplied)
		groups[sig] = append(groups[sig], session)
	}

	sigs := make([]string, 0, len(groups))
	for sig := range groups {
		sigs = append(sigs, sig)
	}
	sort.Strings(sigs)

	promoted := 0
	for _, sig := range sigs {
		group := groups[sig]
		if len(group) < s.opts.MinPatternFrequency {
			continue
		}

		existing, err := s.loadPattern(sig)
		if err != nil {
			return promoted, err
		}
		if existing != nil {
			continue
		}

		if err := s.upsertPattern(minePattern(sig, group, s.opts.MinedSuccessRate)); err != nil {
			return promoted, err
		}
		promoted++
	}

	if promoted > 0 {
		s.invalidateCaches()
	}
	return promoted, nil
}

// minePattern builds a promoted pattern from a group of same-signature
// successful sessions.
func minePattern(sig string, group []*schema.DebugSession, successRate float64) *schema.BugPattern {
	p := &schema.BugPattern{
		PatternID:   sig,
		Category:    group[0].Category,
		Frequency:   len(group),
		SuccessRate: successRate,
	}

	var totalDuration float64
	for _, session := range group {
		totalDuration += session.DurationSeconds
		p.Symptoms = schema.UnionSorted(p.Symptoms, session.Symptoms)
		if session.RootCause != "" {
			p.RootCauses = schema.UnionSorted(p.RootCauses, []string{session.RootCause})
		}
		if session.FixApplied != "" {
			p.Fixes = schema.UnionSorted(p.Fixes, []string{session.FixApplied})
		}
		p.Repositories = schema.UnionSorted(p.Repositories, []string{session.Repository})
		if session.Timestamp.After(p.LastSeen) {
			p.LastSeen = session.Timestamp
		}
	}
	p.AvgFixTime = totalDuration / float64(len(group))
	return p
}
