package core

import (
	"sort"

	"github.com/bugtrail/bugtrail/schema"
)

// BuildGraph constructs a fresh code graph from a codebase snapshot.
// File and function nodes are created first, then declared dependencies and
// co-modification edges from commit history. The returned graph replaces any
// previously built one; rebuilding from identical input yields identical
// node/edge sets and importance scores.
func BuildGraph(snapshot *schema.CodebaseSnapshot) *CodeGraph {
	g := NewCodeGraph()

	touches := commitTouches(snapshot.History)
	maxTouches := 0
	for _, n := range touches {
		if n > maxTouches {
			maxTouches = n
		}
	}

	// File and function nodes. Iterate in sorted path order so node creation
	// is deterministic.
	paths := make([]string, 0, len(snapshot.Files))
	for p := range snapshot.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		entry := snapshot.Files[path]
		fileID := schema.NodeID(path)
		g.AddNode(path, &schema.CodeNode{
			ID:      fileID,
			Type:    schema.FileNode,
			Content: entry.Content,
			Metadata: map[string]any{
				"path":     path,
				"language": entry.Language,
				"loc":      entry.LOC,
			},
			TemporalWeight: temporalWeight(touches[path], maxTouches),
		})

		funcNames := make([]string, 0, len(entry.Functions))
		for name := range entry.Functions {
			funcNames = append(funcNames, name)
		}
		sort.Strings(funcNames)

		for _, name := range funcNames {
			fn := entry.Functions[name]
			logical := path + "::" + name
			funcID := schema.NodeID(logical)
			g.AddNode(logical, &schema.CodeNode{
				ID:      funcID,
				Type:    schema.FunctionNode,
				Content: fn.Content,
				Metadata: map[string]any{
					"path":       path,
					"name":       name,
					"complexity": fn.Complexity,
				},
				TemporalWeight: temporalWeight(touches[path], maxTouches),
			})
			g.AddEdge(fileID, funcID, schema.ContainsRel, schema.EdgeWeight(schema.ContainsRel))
		}
	}

	// Declared dependencies. Both endpoints must already exist; dangling
	// references drop silently per the ingestion contract.
	sources := make([]string, 0, len(snapshot.Dependencies))
	for s := range snapshot.Dependencies {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	for _, source := range sources {
		targets := snapshot.Dependencies[source]
		targetPaths := make([]string, 0, len(targets))
		for t := range targets {
			targetPaths = append(targetPaths, t)
		}
		sort.Strings(targetPaths)

		srcID, ok := g.ResolvePath(source)
		if !ok {
			continue
		}
		for _, target := range targetPaths {
			dstID, ok := g.ResolvePath(target)
			if !ok {
				continue
			}
			rel := targets[target]
			g.AddEdge(srcID, dstID, rel, schema.EdgeWeight(rel))
		}
	}

	// Co-modification edges: every pair of files touched by the same commit,
	// deduplicated per unordered pair across the whole history.
	seenPairs := make(map[[2]string]struct{})
	for _, commit := range snapshot.History.Commits {
		if len(commit.Files) < 2 {
			continue
		}
		files := append([]string(nil), commit.Files...)
		sort.Strings(files)
		for i := 0; i < len(files); i++ {
			for j := i + 1; j < len(files); j++ {
				a, ok := g.ResolvePath(files[i])
				if !ok {
					continue
				}
				b, ok := g.ResolvePath(files[j])
				if !ok {
					continue
				}
				pair := [2]string{a, b}
				if _, dup := seenPairs[pair]; dup {
					continue
				}
				seenPairs[pair] = struct{}{}
				g.AddEdge(a, b, schema.CoModifiedRel, schema.EdgeWeight(schema.CoModifiedRel))
			}
		}
	}

	ComputeImportance(g)
	return g
}

// commitTouches counts how many commits touched each file path.
func commitTouches(history schema.CommitHistory) map[string]int {
	touches := make(map[string]int)
	for _, c := range history.Commits {
		for _, f := range c.Files {
			touches[f]++
		}
	}
	return touches
}

// temporalWeight normalizes a file's commit touch count against the most
// frequently touched file. Files absent from history get zero.
func temporalWeight(touches, maxTouches int) float64 {
	if maxTouches == 0 || touches == 0 {
		return 0
	}
	return float64(touches) / float64(maxTouches)
}
