package compose

import (
	"fmt"
	"strings"

	"archmap/internal/arch"
	"archmap/internal/symbols"
)

const (
	// relatedLimit caps the related files named in architectural context.
	relatedLimit = 5
	// impactLimit caps the dependencies and dependents named per direction.
	impactLimit = 5
	// snippetFiles caps how many related files comprehensive context quotes.
	snippetFiles = 3
)

func (c *Composer) roleOf(filePath string) arch.Role {
	if role, ok := c.roles[filePath]; ok {
		return role
	}
	return arch.RoleUnknown
}

// ArchitecturalContext renders the file's role, its directly related files
// and the patterns it participates in. Returns "" for unscanned files or
// before a build.
func (c *Composer) ArchitecturalContext(filePath string) string {
	if !c.built() {
		return ""
	}
	if _, ok := c.table[filePath]; !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n\nArchitectural Context for %s:\n", filePath))
	sb.WriteString(fmt.Sprintf("- File Role: %s\n", c.roleOf(filePath).Title()))

	if related := c.analyzer.RelatedFiles(filePath, 1); len(related) > 0 {
		sb.WriteString(fmt.Sprintf("- Related Files (%d):\n", len(related)))
		for i, p := range related {
			if i == relatedLimit {
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s [%s]\n", p, c.roleOf(p)))
		}
	}

	if mine := arch.PatternsFor(c.patterns, filePath); len(mine) > 0 {
		sb.WriteString("- Architectural Patterns:\n")
		for _, p := range mine {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", strings.ToUpper(p.Name), p.Description))
		}
	}
	return sb.String()
}

// ImpactAnalysis renders the file's dependencies and dependents with their
// roles plus the change risk. Returns "" for unscanned files or before a
// build.
func (c *Composer) ImpactAnalysis(filePath string) string {
	if !c.built() {
		return ""
	}
	summary := c.analyzer.Summary(filePath)
	if summary == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n\nImpact Analysis for %s:\n", filePath))

	if deps := c.analyzer.DependencyFiles(filePath); len(deps) > 0 {
		sb.WriteString(fmt.Sprintf("- Dependencies (%d files): Changes here may require updates to imported functionality\n", len(deps)))
		c.writeFileList(&sb, deps)
	}
	if dependents := c.analyzer.DependentFiles(filePath); len(dependents) > 0 {
		sb.WriteString(fmt.Sprintf("- Dependents (%d files): Changes here will affect these files\n", len(dependents)))
		c.writeFileList(&sb, dependents)
	}

	sb.WriteString(fmt.Sprintf("- Risk Level: %s\n", summary.Risk))
	return sb.String()
}

func (c *Composer) writeFileList(sb *strings.Builder, files []string) {
	for i, p := range files {
		if i == impactLimit {
			sb.WriteString(fmt.Sprintf("  • ... and %d more files\n", len(files)-impactLimit))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s [%s]\n", p, c.roleOf(p)))
	}
}

// ComprehensiveContext bundles architectural context, impact analysis and
// content snippets from the file's closest neighbors into one text block.
func (c *Composer) ComprehensiveContext(filePath string) string {
	if !c.built() {
		return ""
	}
	if _, ok := c.table[filePath]; !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(c.ArchitecturalContext(filePath))
	sb.WriteString(c.ImpactAnalysis(filePath))

	if related := c.analyzer.RelatedFiles(filePath, 1); len(related) > 0 {
		sb.WriteString("\n\nRelated File Snippets:\n")
		for i, p := range related {
			if i == snippetFiles {
				break
			}
			snippet := c.fileSnippet(p)
			if snippet == "" {
				continue
			}
			sb.WriteString(fmt.Sprintf("--- %s ---\n%s\n\n", p, snippet))
		}
	}
	return sb.String()
}

// fileSnippet quotes the line before through two lines after the first
// declaration in a file, each prefixed with its 1-based line number. Files
// with no recognizable declaration yield "".
func (c *Composer) fileSnippet(filePath string) string {
	rec, ok := c.table[filePath]
	if !ok {
		return ""
	}
	d := symbols.FirstDeclaration(filePath, rec.Content)
	if d == nil {
		return ""
	}

	lines := strings.Split(rec.Content, "\n")
	i := d.Line - 1
	if i < 0 || i >= len(lines) {
		return ""
	}
	start := i - 1
	if start < 0 {
		start = 0
	}
	end := i + 3
	if end > len(lines) {
		end = len(lines)
	}

	numbered := make([]string, 0, end-start)
	for j := start; j < end; j++ {
		numbered = append(numbered, fmt.Sprintf("%3d: %s", j+1, lines[j]))
	}
	return strings.Join(numbered, "\n")
}
