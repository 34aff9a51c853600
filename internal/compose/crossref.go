package compose

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// crossRefFileLimit caps how many files one cross-reference report quotes.
const crossRefFileLimit = 15

// CrossReferences finds whole-word occurrences of symbol across the project
// and renders each match with one line of surrounding context, grouped by
// file. Files related to a hit are searched too, so a symbol's callers show
// up even when they reference it through an import. Returns "" when the
// symbol appears nowhere.
func (c *Composer) CrossReferences(symbol string) string {
	if symbol == "" || !c.built() {
		return ""
	}

	// QuoteMeta guarantees a literal body, so the pattern always compiles.
	wordRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(symbol) + `\b`)

	var symbolFiles []string
	for p, rec := range c.table {
		if wordRe.MatchString(rec.Content) {
			symbolFiles = append(symbolFiles, p)
		}
	}

	extended := make(map[string]bool, len(symbolFiles))
	for _, p := range symbolFiles {
		extended[p] = true
		for _, related := range c.analyzer.RelatedFiles(p, 1) {
			extended[related] = true
		}
	}

	files := make([]string, 0, len(extended))
	for p := range extended {
		files = append(files, p)
	}
	sort.Strings(files)
	if len(files) > crossRefFileLimit {
		files = files[:crossRefFileLimit]
	}

	var blocks []string
	for _, p := range files {
		rec, ok := c.table[p]
		if !ok {
			continue
		}

		lines := strings.Split(rec.Content, "\n")
		var matches []string
		for i, line := range lines {
			if !wordRe.MatchString(line) {
				continue
			}
			start := i - 1
			if start < 0 {
				start = 0
			}
			end := i + 2
			if end > len(lines) {
				end = len(lines)
			}
			window := strings.TrimSpace(strings.Join(lines[start:end], " "))
			matches = append(matches, fmt.Sprintf("Line %d: %s", i+1, window))
		}
		if len(matches) > 0 {
			blocks = append(blocks, fmt.Sprintf("--- %s [%s] ---\n", p, c.roleOf(p))+strings.Join(matches, "\n"))
		}
	}

	if len(blocks) == 0 {
		return ""
	}
	return fmt.Sprintf("\n\nCross-File References for `%s`:\n", symbol) + strings.Join(blocks, "\n\n")
}
