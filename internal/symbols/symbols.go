// Package symbols locates the first class or function declared in a source
// file, anchoring the content snippets that context reports embed. With cgo
// the answer comes from tree-sitter; without it, and for template dialects
// tree-sitter has no grammar for, a per-language regex scan stands in.
package symbols

import (
	"bufio"
	"regexp"
	"strings"
)

const (
	languagePHP        = "php"
	languageBlade      = "blade"
	languageJavaScript = "javascript"
	languageTypeScript = "typescript"
	languageTSX        = "tsx"
	languageVue        = "vue"
	languagePython     = "python"
)

// Declaration is a named class or function found in a source file.
type Declaration struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "class", "interface", "trait", "function", "method"
	Line int    `json:"line"` // 1-indexed
}

// FirstDeclaration returns the first class or function declared in content,
// or nil when none is found or the file type is unsupported.
func FirstDeclaration(filePath, content string) *Declaration {
	language := languageForPath(filePath)
	if language == "" {
		return nil
	}

	if d := treeSitterFirst(language, content); d != nil {
		return d
	}
	return regexFirst(language, content)
}

// IsAvailable reports whether tree-sitter backed lookup is compiled in.
func IsAvailable() bool {
	return treeSitterAvailable
}

func languageForPath(filePath string) string {
	lower := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lower, ".blade.php"):
		return languageBlade
	case strings.HasSuffix(lower, ".php"):
		return languagePHP
	case strings.HasSuffix(lower, ".tsx"):
		return languageTSX
	case strings.HasSuffix(lower, ".ts"):
		return languageTypeScript
	case strings.HasSuffix(lower, ".js"), strings.HasSuffix(lower, ".jsx"),
		strings.HasSuffix(lower, ".mjs"), strings.HasSuffix(lower, ".cjs"):
		return languageJavaScript
	case strings.HasSuffix(lower, ".vue"):
		return languageVue
	case strings.HasSuffix(lower, ".py"):
		return languagePython
	}
	return ""
}

type declarationPattern struct {
	kind string
	re   *regexp.Regexp
}

var phpDeclarations = []declarationPattern{
	{kind: "class", re: regexp.MustCompile(`\bclass\s+([A-Za-z_][A-Za-z0-9_]*)`)},
	{kind: "interface", re: regexp.MustCompile(`\binterface\s+([A-Za-z_][A-Za-z0-9_]*)`)},
	{kind: "trait", re: regexp.MustCompile(`\btrait\s+([A-Za-z_][A-Za-z0-9_]*)`)},
	{kind: "function", re: regexp.MustCompile(`\bfunction\s+([A-Za-z_][A-Za-z0-9_]*)`)},
}

var jsDeclarations = []declarationPattern{
	{kind: "class", re: regexp.MustCompile(`\bclass\s+([A-Za-z_$][A-Za-z0-9_$]*)`)},
	{kind: "function", re: regexp.MustCompile(`\bfunction\s*\*?\s*([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)},
	{kind: "function", re: regexp.MustCompile(`\b(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*(?:async\s+)?(?:function\b|\()`)},
}

var pythonDeclarations = []declarationPattern{
	{kind: "class", re: regexp.MustCompile(`^\s*class\s+([A-Za-z_][A-Za-z0-9_]*)`)},
	{kind: "function", re: regexp.MustCompile(`^\s*def\s+([A-Za-z_][A-Za-z0-9_]*)`)},
}

func declarationsFor(language string) []declarationPattern {
	switch language {
	case languagePHP, languageBlade:
		return phpDeclarations
	case languageJavaScript, languageTypeScript, languageTSX, languageVue:
		return jsDeclarations
	case languagePython:
		return pythonDeclarations
	}
	return nil
}

// regexFirst scans line by line and returns the earliest declaration match.
func regexFirst(language, content string) *Declaration {
	patterns := declarationsFor(language)
	if len(patterns) == 0 {
		return nil
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		for _, p := range patterns {
			if m := p.re.FindStringSubmatch(text); m != nil {
				return &Declaration{Name: m[1], Kind: p.kind, Line: line}
			}
		}
	}
	return nil
}

var (
	declaredSymbolRe = regexp.MustCompile(`(?:class|function|interface|trait)\s+([a-zA-Z0-9_]+)`)
	classNameRe      = regexp.MustCompile(`\b([A-Z][a-zA-Z0-9_]+)\b`)
)

// SymbolFromText pulls a likely symbol name out of free-form text: a
// declared name if one is present, otherwise the first capitalized word.
// Returns "" when nothing usable is found.
func SymbolFromText(text string) string {
	if text == "" {
		return ""
	}
	if m := declaredSymbolRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := classNameRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}
