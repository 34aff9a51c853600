package impact

import (
	"fmt"
	"reflect"
	"testing"

	"archmap/internal/arch"
	"archmap/internal/extract"
	"archmap/internal/graph"
	"archmap/internal/scan"
)

func tableOf(paths ...string) scan.FileTable {
	table := make(scan.FileTable, len(paths))
	for _, p := range paths {
		table[p] = &scan.FileRecord{Path: p}
	}
	return table
}

func edge(source, target string) graph.Relationship {
	return graph.Relationship{Source: source, Target: target, Kind: extract.KindImport, Line: 1}
}

func analyzerFor(table scan.FileTable, edges []graph.Relationship) *Analyzer {
	g := graph.FromRelationships(table, edges)
	return New(table, g, arch.ClassifyAll(table))
}

func TestRelatedFilesFollowsBothDirections(t *testing.T) {
	table := tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Models/User.php",
		"app/Services/UserService.php",
	)
	a := analyzerFor(table, []graph.Relationship{
		edge("app/Http/Controllers/UserController.php", "app/Models/User.php"),
		edge("app/Services/UserService.php", "app/Models/User.php"),
	})

	// The model has no outgoing edges, so only the reverse direction can
	// reach its users.
	related := a.RelatedFiles("app/Models/User.php", 1)
	want := []string{
		"app/Http/Controllers/UserController.php",
		"app/Services/UserService.php",
	}
	if !reflect.DeepEqual(related, want) {
		t.Errorf("Expected %v, got %v", want, related)
	}
}

func TestRelatedFilesDepthBounded(t *testing.T) {
	table := tableOf("a.php", "b.php", "c.php", "d.php")
	a := analyzerFor(table, []graph.Relationship{
		edge("a.php", "b.php"),
		edge("b.php", "c.php"),
		edge("c.php", "d.php"),
	})

	depth1 := a.RelatedFiles("a.php", 1)
	if !reflect.DeepEqual(depth1, []string{"b.php"}) {
		t.Errorf("Expected [b.php] at depth 1, got %v", depth1)
	}

	depth2 := a.RelatedFiles("a.php", 2)
	if !reflect.DeepEqual(depth2, []string{"b.php", "c.php"}) {
		t.Errorf("Expected [b.php c.php] at depth 2, got %v", depth2)
	}

	depth3 := a.RelatedFiles("a.php", 3)
	if !reflect.DeepEqual(depth3, []string{"b.php", "c.php", "d.php"}) {
		t.Errorf("Expected [b.php c.php d.php] at depth 3, got %v", depth3)
	}

	// Widening the depth never loses files.
	seen := make(map[string]bool)
	for _, p := range depth2 {
		seen[p] = true
	}
	for _, p := range depth1 {
		if !seen[p] {
			t.Errorf("File %s present at depth 1 but missing at depth 2", p)
		}
	}
}

func TestRelatedFilesDefaultDepth(t *testing.T) {
	table := tableOf("a.php", "b.php", "c.php", "d.php")
	a := analyzerFor(table, []graph.Relationship{
		edge("a.php", "b.php"),
		edge("b.php", "c.php"),
		edge("c.php", "d.php"),
	})

	related := a.RelatedFiles("a.php", 0)
	if !reflect.DeepEqual(related, []string{"b.php", "c.php"}) {
		t.Errorf("Expected default depth of %d, got %v", DefaultDepth, related)
	}
}

func TestRelatedFilesCycleTerminates(t *testing.T) {
	table := tableOf("a.php", "b.php")
	a := analyzerFor(table, []graph.Relationship{
		edge("a.php", "b.php"),
		edge("b.php", "a.php"),
	})

	related := a.RelatedFiles("a.php", 10)
	if !reflect.DeepEqual(related, []string{"b.php"}) {
		t.Errorf("Expected [b.php], got %v", related)
	}
}

func TestRelatedFilesUnknownOrigin(t *testing.T) {
	a := analyzerFor(tableOf("a.php"), nil)

	if related := a.RelatedFiles("missing.php", 2); related != nil {
		t.Errorf("Expected nil for unscanned origin, got %v", related)
	}
}

func TestSummaryCountsAndRole(t *testing.T) {
	table := tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Services/UserService.php",
		"app/Models/User.php",
		"app/Models/Concerns/Sluggable.php",
	)
	a := analyzerFor(table, []graph.Relationship{
		edge("app/Http/Controllers/UserController.php", "app/Models/User.php"),
		edge("app/Services/UserService.php", "app/Models/User.php"),
		edge("app/Models/User.php", "app/Models/Concerns/Sluggable.php"),
	})

	summary := a.Summary("app/Models/User.php")
	if summary == nil {
		t.Fatal("Expected a summary")
	}
	if summary.Role != arch.RoleModel {
		t.Errorf("Expected role model, got %s", summary.Role)
	}
	if summary.DependencyCount != 1 {
		t.Errorf("Expected 1 dependency, got %d", summary.DependencyCount)
	}
	if summary.DependentCount != 2 {
		t.Errorf("Expected 2 dependents, got %d", summary.DependentCount)
	}
	if summary.Risk != RiskLow {
		t.Errorf("Expected risk 'low', got '%s'", summary.Risk)
	}
}

func TestSummaryCountsDistinctFiles(t *testing.T) {
	table := tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Http/Controllers/Controller.php",
	)
	// The same file pair linked twice, once as an import and once as an
	// extends, must still count as one dependency.
	a := analyzerFor(table, []graph.Relationship{
		{Source: "app/Http/Controllers/UserController.php", Target: "app/Http/Controllers/Controller.php", Kind: extract.KindImport, Line: 3},
		{Source: "app/Http/Controllers/UserController.php", Target: "app/Http/Controllers/Controller.php", Kind: extract.KindExtends, Line: 5},
	})

	summary := a.Summary("app/Http/Controllers/UserController.php")
	if summary.DependencyCount != 1 {
		t.Errorf("Expected 1 dependency, got %d", summary.DependencyCount)
	}

	deps := a.DependencyFiles("app/Http/Controllers/UserController.php")
	want := []string{"app/Http/Controllers/Controller.php"}
	if !reflect.DeepEqual(deps, want) {
		t.Errorf("Expected %v, got %v", want, deps)
	}

	dependents := a.DependentFiles("app/Http/Controllers/Controller.php")
	want = []string{"app/Http/Controllers/UserController.php"}
	if !reflect.DeepEqual(dependents, want) {
		t.Errorf("Expected %v, got %v", want, dependents)
	}
}

func TestSummaryRiskThresholds(t *testing.T) {
	cases := []struct {
		dependents int
		want       RiskLevel
	}{
		{0, RiskLow},
		{5, RiskLow},
		{6, RiskMedium},
		{10, RiskMedium},
		{11, RiskHigh},
	}

	for _, tc := range cases {
		paths := []string{"app/Models/Order.php"}
		var edges []graph.Relationship
		for i := 0; i < tc.dependents; i++ {
			p := fmt.Sprintf("app/Http/Controllers/C%02dController.php", i)
			paths = append(paths, p)
			edges = append(edges, edge(p, "app/Models/Order.php"))
		}

		a := analyzerFor(tableOf(paths...), edges)
		summary := a.Summary("app/Models/Order.php")
		if summary.DependentCount != tc.dependents {
			t.Fatalf("Expected %d dependents, got %d", tc.dependents, summary.DependentCount)
		}
		if summary.Risk != tc.want {
			t.Errorf("Expected risk '%s' for %d dependents, got '%s'", tc.want, tc.dependents, summary.Risk)
		}
	}
}

func TestSummarySuggestedTests(t *testing.T) {
	table := tableOf(
		"app/Models/User.php",
		"tests/Unit/UserTest.php",
		"tests/Feature/OrderTest.php",
	)
	a := analyzerFor(table, nil)

	summary := a.Summary("app/Models/User.php")
	want := []string{"tests/Unit/UserTest.php"}
	if !reflect.DeepEqual(summary.SuggestedTests, want) {
		t.Errorf("Expected %v, got %v", want, summary.SuggestedTests)
	}
}

func TestSummaryUnknownFile(t *testing.T) {
	a := analyzerFor(tableOf("a.php"), nil)

	if summary := a.Summary("missing.php"); summary != nil {
		t.Errorf("Expected nil for unscanned file, got %+v", summary)
	}
}
