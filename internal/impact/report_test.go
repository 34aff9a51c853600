package impact

import (
	"fmt"
	"strings"
	"testing"

	"archmap/internal/arch"
	"archmap/internal/graph"
)

func TestChangeImpactReportHighRisk(t *testing.T) {
	paths := []string{"app/Models/Order.php"}
	var edges []graph.Relationship
	for i := 0; i < 11; i++ {
		p := fmt.Sprintf("app/Http/Controllers/C%02dController.php", i)
		paths = append(paths, p)
		edges = append(edges, edge(p, "app/Models/Order.php"))
	}
	a := analyzerFor(tableOf(paths...), edges)

	report := a.ChangeImpactReport("app/Models/Order.php", nil)

	if !strings.Contains(report, "- Modifying this model file (high risk)") {
		t.Errorf("Expected high risk banner, got:\n%s", report)
	}
	if !strings.Contains(report, "- Will potentially affect 11 dependent files") {
		t.Errorf("Expected dependent count line, got:\n%s", report)
	}
	if !strings.Contains(report, "• ... and 6 more") {
		t.Errorf("Expected overflow line for 11 dependents, got:\n%s", report)
	}
	if !strings.Contains(report, "- High-impact dependents: ") {
		t.Errorf("Expected high-impact dependents line, got:\n%s", report)
	}

	// Only the first three high-impact dependents are named.
	line := ""
	for _, l := range strings.Split(report, "\n") {
		if strings.HasPrefix(l, "- High-impact dependents: ") {
			line = l
		}
	}
	if got := strings.Count(line, "Controller.php"); got != 3 {
		t.Errorf("Expected 3 named high-impact dependents, got %d in %q", got, line)
	}
}

func TestChangeImpactReportRolesAndPatterns(t *testing.T) {
	table := tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Models/User.php",
	)
	edges := []graph.Relationship{
		edge("app/Http/Controllers/UserController.php", "app/Models/User.php"),
	}
	roles := arch.ClassifyAll(table)
	patterns := arch.DetectPatterns(roles)
	a := New(table, graph.FromRelationships(table, edges), roles)

	report := a.ChangeImpactReport("app/Models/User.php", patterns)

	if !strings.Contains(report, "• app/Http/Controllers/UserController.php [controller]") {
		t.Errorf("Expected dependent with role, got:\n%s", report)
	}
	if !strings.Contains(report, "- Architectural patterns: mvc") {
		t.Errorf("Expected pattern line, got:\n%s", report)
	}
}

func TestChangeImpactReportDependencies(t *testing.T) {
	table := tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Models/User.php",
		"app/Services/AuditService.php",
	)
	edges := []graph.Relationship{
		edge("app/Http/Controllers/UserController.php", "app/Models/User.php"),
		edge("app/Http/Controllers/UserController.php", "app/Services/AuditService.php"),
	}
	a := analyzerFor(table, edges)

	report := a.ChangeImpactReport("app/Http/Controllers/UserController.php", nil)

	if !strings.Contains(report, "- Depends on 2 other files") {
		t.Errorf("Expected dependency count line, got:\n%s", report)
	}
	if !strings.Contains(report, "• app/Models/User.php [model]") {
		t.Errorf("Expected dependency with role, got:\n%s", report)
	}
	if strings.Contains(report, "Will potentially affect") {
		t.Errorf("Expected no dependents section, got:\n%s", report)
	}
}

func TestChangeImpactReportSuggestsTests(t *testing.T) {
	table := tableOf(
		"app/Models/User.php",
		"tests/Unit/UserTest.php",
	)
	a := analyzerFor(table, nil)

	report := a.ChangeImpactReport("app/Models/User.php", nil)

	if !strings.Contains(report, "- Recommended tests to run: tests/Unit/UserTest.php") {
		t.Errorf("Expected recommended tests line, got:\n%s", report)
	}
}

func TestChangeImpactReportUnknownFile(t *testing.T) {
	a := analyzerFor(tableOf("a.php"), nil)

	if report := a.ChangeImpactReport("missing.php", nil); report != "" {
		t.Errorf("Expected empty report for unscanned file, got:\n%s", report)
	}
}
