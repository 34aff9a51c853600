package impact

import (
	"fmt"
	"strings"

	"archmap/internal/arch"
)

// listLimit caps how many dependencies or dependents the report names.
const listLimit = 5

// highImpactRoles are the roles whose dependents make a change ripple
// furthest. Touching a file these depend on tends to break request paths.
var highImpactRoles = map[arch.Role]bool{
	arch.RoleController: true,
	arch.RoleService:    true,
	arch.RoleModel:      true,
}

// ChangeImpactReport renders a plain-text summary of what changing the
// file touches: risk, dependencies and dependents with their roles,
// high-impact dependents, the patterns the file participates in and the
// tests worth running. Returns "" for files that were never scanned.
func (a *Analyzer) ChangeImpactReport(filePath string, patterns []arch.Pattern) string {
	summary := a.Summary(filePath)
	if summary == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Change Impact Summary for %s:\n", filePath))
	sb.WriteString(fmt.Sprintf("- Modifying this %s file (%s risk)\n", summary.Role, summary.Risk))

	dependents := a.DependentFiles(filePath)
	if len(dependents) > 0 {
		sb.WriteString(fmt.Sprintf("- Will potentially affect %d dependent files\n", len(dependents)))
		for i, p := range dependents {
			if i == listLimit {
				sb.WriteString(fmt.Sprintf("  • ... and %d more\n", len(dependents)-listLimit))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s [%s]\n", p, a.roleOf(p)))
		}

		var highImpact []string
		for _, p := range dependents {
			if highImpactRoles[a.roleOf(p)] {
				highImpact = append(highImpact, p)
			}
		}
		if len(highImpact) > 0 {
			if len(highImpact) > 3 {
				highImpact = highImpact[:3]
			}
			sb.WriteString(fmt.Sprintf("- High-impact dependents: %s\n", strings.Join(highImpact, ", ")))
		}
	}

	dependencies := a.DependencyFiles(filePath)
	if len(dependencies) > 0 {
		sb.WriteString(fmt.Sprintf("- Depends on %d other files\n", len(dependencies)))
		for i, p := range dependencies {
			if i == listLimit {
				sb.WriteString(fmt.Sprintf("  • ... and %d more\n", len(dependencies)-listLimit))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s [%s]\n", p, a.roleOf(p)))
		}
	}

	if mine := arch.PatternsFor(patterns, filePath); len(mine) > 0 {
		names := make([]string, len(mine))
		for i, p := range mine {
			names[i] = p.Name
		}
		sb.WriteString(fmt.Sprintf("- Architectural patterns: %s\n", strings.Join(names, ", ")))
	}

	if len(summary.SuggestedTests) > 0 {
		sb.WriteString(fmt.Sprintf("- Recommended tests to run: %s\n", strings.Join(summary.SuggestedTests, ", ")))
	}

	return sb.String()
}
