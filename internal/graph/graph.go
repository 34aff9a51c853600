// Package graph builds and queries the project file dependency graph.
package graph

import (
	"sort"

	"archmap/internal/extract"
	"archmap/internal/scan"
)

// Relationship is one directed dependency between two project files.
type Relationship struct {
	// Source is the project-relative path of the referring file
	Source string `json:"source"`

	// Target is the project-relative path of the referenced file
	Target string `json:"target"`

	// Kind is the relationship kind: import, extends, implements or uses
	Kind extract.Kind `json:"kind"`

	// Line is the 1-based line of the reference in the source file (optional)
	Line int `json:"line,omitempty"`

	// Snippet is the raw reference text as matched (optional)
	Snippet string `json:"snippet,omitempty"`
}

// Graph holds forward and reverse adjacency over scanned files. Both
// endpoints of every relationship are keys of the file table the graph was
// built from; references that resolve to nothing in the table are dropped
// during construction. A Graph is immutable once built.
type Graph struct {
	forward map[string][]Relationship
	reverse map[string][]Relationship
	edges   int
}

type edgeKey struct {
	source string
	target string
	kind   extract.Kind
}

// Build extracts dependencies from every file in the table and assembles the
// graph. For each token the first candidate naming a scanned file wins.
// Self references and duplicate (source, target, kind) pairs are dropped.
func Build(table scan.FileTable, set *extract.Set) *Graph {
	g := newGraph()

	sources := make([]string, 0, len(table))
	for p := range table {
		sources = append(sources, p)
	}
	sort.Strings(sources)

	seen := make(map[edgeKey]bool)
	for _, source := range sources {
		record := table[source]
		for _, token := range set.Extract(source, record.Content) {
			target, ok := resolveCandidate(table, token.Candidates)
			if !ok || target == source {
				continue
			}
			key := edgeKey{source, target, token.Kind}
			if seen[key] {
				continue
			}
			seen[key] = true
			g.add(Relationship{
				Source:  source,
				Target:  target,
				Kind:    token.Kind,
				Line:    token.Line,
				Snippet: token.Raw,
			})
		}
	}
	return g
}

// FromRelationships rebuilds a graph from previously serialized
// relationships, dropping any whose endpoints are no longer in the table or
// whose kind is unknown. Used when restoring a cached build.
func FromRelationships(table scan.FileTable, relationships []Relationship) *Graph {
	g := newGraph()

	seen := make(map[edgeKey]bool)
	for _, rel := range relationships {
		if !extract.ValidKind(rel.Kind) {
			continue
		}
		if _, ok := table[rel.Source]; !ok {
			continue
		}
		if _, ok := table[rel.Target]; !ok {
			continue
		}
		if rel.Source == rel.Target {
			continue
		}
		key := edgeKey{rel.Source, rel.Target, rel.Kind}
		if seen[key] {
			continue
		}
		seen[key] = true
		g.add(rel)
	}
	return g
}

func newGraph() *Graph {
	return &Graph{
		forward: make(map[string][]Relationship),
		reverse: make(map[string][]Relationship),
	}
}

func (g *Graph) add(rel Relationship) {
	g.forward[rel.Source] = append(g.forward[rel.Source], rel)
	g.reverse[rel.Target] = append(g.reverse[rel.Target], rel)
	g.edges++
}

// Dependencies returns the relationships whose source is the given file.
// The returned slice is a copy.
func (g *Graph) Dependencies(path string) []Relationship {
	return copyRelationships(g.forward[path])
}

// Dependents returns the relationships whose target is the given file.
// The returned slice is a copy.
func (g *Graph) Dependents(path string) []Relationship {
	return copyRelationships(g.reverse[path])
}

// EdgeCount returns the number of relationships in the graph.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Relationships returns every relationship, ordered by source, line and
// target for deterministic serialization.
func (g *Graph) Relationships() []Relationship {
	all := make([]Relationship, 0, g.edges)
	for _, rels := range g.forward {
		all = append(all, rels...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Source != all[j].Source {
			return all[i].Source < all[j].Source
		}
		if all[i].Line != all[j].Line {
			return all[i].Line < all[j].Line
		}
		if all[i].Target != all[j].Target {
			return all[i].Target < all[j].Target
		}
		return all[i].Kind < all[j].Kind
	})
	return all
}

func copyRelationships(rels []Relationship) []Relationship {
	if len(rels) == 0 {
		return nil
	}
	out := make([]Relationship, len(rels))
	copy(out, rels)
	return out
}

func resolveCandidate(table scan.FileTable, candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if _, ok := table[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}
