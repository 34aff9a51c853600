package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

// FormatResponse formats a response according to the specified format
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatText:
		return formatText(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatJSON formats the response as JSON
func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// formatYAML formats the response as YAML
func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// formatText formats the response in human-readable format
func formatText(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *BuildResponseCLI:
		return formatBuildText(v)
	case *ContextResponseCLI:
		return formatContextText(v)
	case *RelatedResponseCLI:
		return formatRelatedText(v)
	case *ImpactResponseCLI:
		return formatImpactText(v)
	case *RefsResponseCLI:
		return formatRefsText(v)
	case *PatternsResponseCLI:
		return formatPatternsText(v)
	case *CacheStatsResponseCLI:
		return formatCacheStatsText(v)
	case *HistoryResponseCLI:
		return formatHistoryText(v)
	default:
		// For unknown types, fall back to JSON
		return formatJSON(resp)
	}
}

// formatBuildText formats a BuildResponseCLI in human-readable format
func formatBuildText(resp *BuildResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Build Summary - %s (%s)\n", resp.Project, resp.Kind))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Files:    %d\n", resp.Files))
	b.WriteString(fmt.Sprintf("Edges:    %d\n", resp.Edges))
	b.WriteString(fmt.Sprintf("Patterns: %d\n", len(resp.Patterns)))
	b.WriteString(fmt.Sprintf("Duration: %dms\n", resp.DurationMS))
	if resp.CacheHit {
		b.WriteString("Restored from cache\n")
	}
	if resp.Truncated {
		b.WriteString("Scan hit a budget limit; results are partial\n")
	}

	if len(resp.Roles) > 0 {
		b.WriteString("\nRoles:\n")
		for _, name := range sortedRoleNames(resp.Roles) {
			b.WriteString(fmt.Sprintf("  %-12s %d\n", name, resp.Roles[name]))
		}
	}

	if len(resp.Patterns) > 0 {
		b.WriteString("\nArchitectural Patterns:\n")
		for _, p := range resp.Patterns {
			b.WriteString(fmt.Sprintf("  %s: %s (%d files)\n",
				strings.ToUpper(p.Name), p.Description, len(p.Files)))
		}
	}

	return b.String(), nil
}

// formatContextText formats a ContextResponseCLI in human-readable format
func formatContextText(resp *ContextResponseCLI) (string, error) {
	if strings.TrimSpace(resp.Context) == "" {
		return fmt.Sprintf("No context available for %s", resp.File), nil
	}
	return strings.TrimSpace(resp.Context), nil
}

// formatRelatedText formats a RelatedResponseCLI in human-readable format
func formatRelatedText(resp *RelatedResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Related Files for: %s\n", resp.File))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Found %d files within depth %d\n\n", resp.Total, resp.Depth))

	for _, rel := range resp.Related {
		b.WriteString(fmt.Sprintf("  %s [%s]\n", rel.Path, rel.Role))
	}

	return b.String(), nil
}

// formatImpactText formats an ImpactResponseCLI in human-readable format
func formatImpactText(resp *ImpactResponseCLI) (string, error) {
	if resp.Report != "" {
		return strings.TrimSpace(resp.Report), nil
	}
	if resp.Analysis != "" {
		return strings.TrimSpace(resp.Analysis), nil
	}
	return fmt.Sprintf("No impact information for %s", resp.File), nil
}

// formatRefsText formats a RefsResponseCLI in human-readable format
func formatRefsText(resp *RefsResponseCLI) (string, error) {
	if strings.TrimSpace(resp.References) == "" {
		return fmt.Sprintf("No references found for `%s`", resp.Symbol), nil
	}
	return strings.TrimSpace(resp.References), nil
}

// formatPatternsText formats a PatternsResponseCLI in human-readable format
func formatPatternsText(resp *PatternsResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Architecture Patterns\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	if len(resp.Patterns) == 0 {
		b.WriteString("No architectural patterns detected\n")
	}
	for _, p := range resp.Patterns {
		b.WriteString(fmt.Sprintf("%s: %s\n", strings.ToUpper(p.Name), p.Description))
		b.WriteString(fmt.Sprintf("  Files: %d\n", len(p.Files)))
	}

	if resp.Structure != nil {
		b.WriteString("\nProject Structure:\n")
		if resp.Structure.Primary != "" {
			b.WriteString(fmt.Sprintf("  Primary: %s\n", resp.Structure.Primary))
		}
		for _, p := range resp.Structure.Patterns {
			b.WriteString(fmt.Sprintf("  %s (confidence %.2f)\n", p.Name, p.Confidence))
			for _, ev := range p.Evidence {
				b.WriteString(fmt.Sprintf("    - %s\n", ev))
			}
		}
		if len(resp.Structure.TopLevel) > 0 {
			b.WriteString("\n  Top-level directories:\n")
			for _, d := range resp.Structure.TopLevel {
				b.WriteString(fmt.Sprintf("    %-20s %d files\n", d.Dir, d.Files))
			}
		}
	}

	return b.String(), nil
}

// formatCacheStatsText formats a CacheStatsResponseCLI in human-readable format
func formatCacheStatsText(resp *CacheStatsResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Cache Statistics\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	b.WriteString(fmt.Sprintf("Directory: %s\n", resp.Dir))
	b.WriteString(fmt.Sprintf("Entries:   %d\n", resp.Entries))
	b.WriteString(fmt.Sprintf("Size:      %s\n", formatBytes(resp.SizeBytes)))
	b.WriteString(fmt.Sprintf("Hits:      %d (this process)\n", resp.Hits))
	b.WriteString(fmt.Sprintf("Misses:    %d (this process)\n", resp.Misses))

	return b.String(), nil
}

// formatHistoryText formats a HistoryResponseCLI in human-readable format
func formatHistoryText(resp *HistoryResponseCLI) (string, error) {
	var b strings.Builder

	b.WriteString("Build History\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	b.WriteString(fmt.Sprintf("Showing %d of %d builds\n\n", len(resp.Builds), resp.Total))

	for i, rec := range resp.Builds {
		flags := ""
		if rec.CacheHit {
			flags += "  cached"
		}
		if rec.Truncated {
			flags += "  truncated"
		}
		b.WriteString(fmt.Sprintf("%d. %s  %d files, %d edges, %d patterns  %dms%s\n",
			i+1, rec.StartedAt.Format("2006-01-02 15:04:05"),
			rec.Files, rec.Edges, rec.Patterns, rec.DurationMS, flags))
	}

	return b.String(), nil
}

// sortedRoleNames returns the role names of a count map in sorted order.
func sortedRoleNames(roles map[string]int) []string {
	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatBytes formats byte size in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
