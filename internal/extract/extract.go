// Package extract pulls raw dependency references out of source files.
//
// Each supported language has an Extractor that runs a table of regex rules
// over file content and emits Tokens. A Token carries the matched text, the
// relationship kind the rule is tagged with, the line number, and one or more
// normalized candidate paths. Candidates that do not name a scanned file are
// dropped later, when the dependency graph is built.
package extract

import (
	"bufio"
	"path"
	"strings"

	"archmap/internal/config"
	"archmap/internal/logging"
	"archmap/internal/scan"
)

// Kind classifies the relationship a matched rule expresses.
type Kind string

const (
	// KindImport covers use statements, require/include and module imports.
	KindImport Kind = "import"

	// KindExtends covers class inheritance.
	KindExtends Kind = "extends"

	// KindImplements covers interface implementation.
	KindImplements Kind = "implements"

	// KindUses covers static calls, instantiations and template usage.
	KindUses Kind = "uses"
)

// ValidKind reports whether k is one of the four relationship kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindImport, KindExtends, KindImplements, KindUses:
		return true
	}
	return false
}

// Token is one raw dependency reference found in a source file.
type Token struct {
	// Raw is the matched text before normalization
	Raw string `json:"raw"`

	// Kind is the relationship kind of the rule that matched
	Kind Kind `json:"kind"`

	// Line is the 1-based line number of the match
	Line int `json:"line"`

	// Candidates are normalized project-relative paths this reference may
	// resolve to, in priority order. A candidate that is not a scanned file
	// is ignored downstream.
	Candidates []string `json:"candidates"`
}

// Extractor extracts dependency tokens for one language.
type Extractor interface {
	// Language returns the language name, e.g. "php"
	Language() string

	// Extensions lists the file suffixes this extractor handles
	Extensions() []string

	// Extract scans content and returns all dependency tokens. The source
	// path is project-relative and is used to resolve relative specifiers.
	Extract(sourcePath string, content string) []Token
}

// Set is a registry of extractors selected by file extension.
type Set struct {
	extractors []Extractor
	byExt      map[string]Extractor
	exts       []string
	logger     *logging.Logger
}

// NewSet builds the registry of built-in extractors for the given
// configuration, merging any custom rules from the configured patterns file.
// An empty or missing patterns file is not an error.
func NewSet(cfg *config.ExtractConfig, patternsPath string, logger *logging.Logger) *Set {
	custom := loadCustomRules(patternsPath, logger)

	roots := cfg.NamespaceRoots
	if len(roots) == 0 {
		roots = config.DefaultConfig().Extract.NamespaceRoots
	}

	php := newPHPExtractor(roots, custom[languagePHP])
	extractors := []Extractor{
		php,
		newBladeExtractor(php, custom[languageBlade]),
		newJSExtractor(custom[languageJavaScript]),
		newPythonExtractor(custom[languagePython]),
	}

	s := &Set{
		extractors: extractors,
		byExt:      make(map[string]Extractor),
		logger:     logger,
	}
	known := make(map[string]bool)
	for _, e := range extractors {
		known[e.Language()] = true
		for _, ext := range e.Extensions() {
			s.byExt[ext] = e
			s.exts = append(s.exts, ext)
		}
	}
	for lang := range custom {
		if !known[lang] {
			logger.Warn("Ignoring custom patterns for unknown language", map[string]interface{}{
				"language": lang,
			})
		}
	}
	return s
}

// ForPath returns the extractor responsible for the given file, choosing the
// longest matching extension so "user.blade.php" selects the Blade extractor
// rather than the PHP one.
func (s *Set) ForPath(filePath string) (Extractor, bool) {
	ext, ok := scan.MatchExtension(path.Base(filePath), s.exts)
	if !ok {
		return nil, false
	}
	e, ok := s.byExt[ext]
	return e, ok
}

// Extract runs the matching extractor over content. Files with an unknown
// extension yield no tokens.
func (s *Set) Extract(sourcePath string, content string) []Token {
	e, ok := s.ForPath(sourcePath)
	if !ok {
		return nil
	}
	return e.Extract(sourcePath, content)
}

// Languages lists the registered language names.
func (s *Set) Languages() []string {
	names := make([]string, 0, len(s.extractors))
	for _, e := range s.extractors {
		names = append(names, e.Language())
	}
	return names
}

// scanRules applies a rule table line by line. expand turns a raw capture
// into zero or more tokens: one reference may expand to several tokens (a
// comma-separated interface list) or to one token with several alternative
// candidates (an extensionless JS specifier).
func scanRules(rules []patternRule, content string, expand func(rule patternRule, raw string, line int) []Token) []Token {
	var tokens []Token
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		for _, rule := range rules {
			matches := rule.re.FindAllStringSubmatch(line, -1)
			for _, match := range matches {
				if len(match) < 2 {
					continue
				}
				raw := strings.TrimSpace(match[1])
				if raw == "" {
					continue
				}
				tokens = append(tokens, expand(rule, raw, lineNum)...)
			}
		}
	}

	return tokens
}

// stripQuotes removes surrounding single or double quotes and whitespace.
func stripQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// resolveRelative resolves a ./ or ../ specifier against the directory of the
// source file and returns a clean forward-slash project-relative path. Paths
// escaping the project root resolve to "".
func resolveRelative(sourcePath string, specifier string) string {
	resolved := path.Join(path.Dir(sourcePath), specifier)
	if resolved == ".." || strings.HasPrefix(resolved, "../") {
		return ""
	}
	return resolved
}
