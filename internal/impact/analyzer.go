package impact

import (
	"sort"
	"strings"

	"archmap/internal/arch"
	"archmap/internal/graph"
	"archmap/internal/paths"
	"archmap/internal/scan"
)

// RiskLevel grades how risky a change to a file is.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// DefaultDepth is the traversal depth used when the caller does not pick one.
const DefaultDepth = 2

// Summary condenses the blast radius of changing one file.
type Summary struct {
	Path            string    `json:"path"`
	Role            arch.Role `json:"role"`
	DependencyCount int       `json:"dependencyCount"`
	DependentCount  int       `json:"dependentCount"`
	Risk            RiskLevel `json:"riskLevel"`
	SuggestedTests  []string  `json:"suggestedTests,omitempty"`
}

// Analyzer runs traversal and impact queries against one build's graph.
// It holds no state of its own beyond the references it is given, so a new
// one is cheap to create per build.
type Analyzer struct {
	table scan.FileTable
	graph *graph.Graph
	roles map[string]arch.Role
}

// New binds an analyzer to a build's file table, graph and roles.
func New(table scan.FileTable, g *graph.Graph, roles map[string]arch.Role) *Analyzer {
	return &Analyzer{table: table, graph: g, roles: roles}
}

type hop struct {
	path  string
	depth int
}

// RelatedFiles walks outward from origin following edges in both
// directions and returns every file within maxDepth hops, sorted. The
// origin itself is excluded, each file is visited at most once, and an
// origin that was never scanned yields nil. A maxDepth of zero or less
// falls back to DefaultDepth.
func (a *Analyzer) RelatedFiles(origin string, maxDepth int) []string {
	if _, ok := a.table[origin]; !ok {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultDepth
	}

	visited := make(map[string]bool)
	var related []string

	queue := []hop{{path: origin, depth: 0}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current.path] || current.depth > maxDepth {
			continue
		}
		visited[current.path] = true
		if current.depth > 0 {
			related = append(related, current.path)
		}

		for _, rel := range a.graph.Dependencies(current.path) {
			if !visited[rel.Target] {
				queue = append(queue, hop{path: rel.Target, depth: current.depth + 1})
			}
		}
		for _, rel := range a.graph.Dependents(current.path) {
			if !visited[rel.Source] {
				queue = append(queue, hop{path: rel.Source, depth: current.depth + 1})
			}
		}
	}

	sort.Strings(related)
	return related
}

// DependencyFiles returns the distinct files filePath references, in
// first-reference order. A pair linked by more than one relationship kind
// appears once.
func (a *Analyzer) DependencyFiles(filePath string) []string {
	rels := a.graph.Dependencies(filePath)
	seen := make(map[string]bool, len(rels))
	var out []string
	for _, rel := range rels {
		if seen[rel.Target] {
			continue
		}
		seen[rel.Target] = true
		out = append(out, rel.Target)
	}
	return out
}

// DependentFiles returns the distinct files that reference filePath, in
// first-reference order.
func (a *Analyzer) DependentFiles(filePath string) []string {
	rels := a.graph.Dependents(filePath)
	seen := make(map[string]bool, len(rels))
	var out []string
	for _, rel := range rels {
		if seen[rel.Source] {
			continue
		}
		seen[rel.Source] = true
		out = append(out, rel.Source)
	}
	return out
}

// Summary reports dependency counts, change risk and matching test files
// for one file, or nil when the file was never scanned. Counts are distinct
// files, not edges.
func (a *Analyzer) Summary(filePath string) *Summary {
	if _, ok := a.table[filePath]; !ok {
		return nil
	}

	dependents := a.DependentFiles(filePath)
	return &Summary{
		Path:            filePath,
		Role:            a.roleOf(filePath),
		DependencyCount: len(a.DependencyFiles(filePath)),
		DependentCount:  len(dependents),
		Risk:            riskFor(len(dependents)),
		SuggestedTests:  a.suggestedTests(filePath),
	}
}

func (a *Analyzer) roleOf(filePath string) arch.Role {
	if role, ok := a.roles[filePath]; ok {
		return role
	}
	return arch.RoleUnknown
}

// suggestedTests lists test-role files whose path mentions the subject's
// base name, case-insensitively.
func (a *Analyzer) suggestedTests(filePath string) []string {
	base := strings.ToLower(paths.BaseName(filePath))
	if base == "" {
		return nil
	}

	var tests []string
	for p, role := range a.roles {
		if role != arch.RoleTest {
			continue
		}
		if strings.Contains(strings.ToLower(p), base) {
			tests = append(tests, p)
		}
	}
	sort.Strings(tests)
	return tests
}

func riskFor(dependents int) RiskLevel {
	switch {
	case dependents > 10:
		return RiskHigh
	case dependents > 5:
		return RiskMedium
	default:
		return RiskLow
	}
}
