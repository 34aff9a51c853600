package extract

import (
	"path"
	"regexp"
	"strings"
)

// Language names accepted in patterns.toml.
const (
	languagePHP        = "php"
	languageBlade      = "blade"
	languageJavaScript = "javascript"
	languagePython     = "python"
)

// bladeViewRoot is where dot-notation view names resolve to.
const bladeViewRoot = "resources/views"

// patternRule is one regex rule tagged with the relationship kind it expresses.
// The first capture group is the dependency reference.
type patternRule struct {
	kind Kind
	re   *regexp.Regexp
}

// Built-in PHP rules: use statements, require/include, inheritance,
// interface lists, static calls and instantiations.
var phpRules = []patternRule{
	{KindImport, regexp.MustCompile(`use\s+([A-Za-z_\\][A-Za-z0-9_\\]*)(?:\s+as\s+\w+)?\s*;`)},
	{KindImport, regexp.MustCompile(`require(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`)},
	{KindImport, regexp.MustCompile(`include(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`)},
	{KindExtends, regexp.MustCompile(`class\s+\w+\s+extends\s+([A-Za-z0-9_\\]+)`)},
	{KindImplements, regexp.MustCompile(`implements\s+([A-Za-z0-9_\\,\s]+)`)},
	{KindUses, regexp.MustCompile(`\b([A-Z][A-Za-z0-9_\\]*)::[A-Za-z_]`)},
	{KindUses, regexp.MustCompile(`new\s+\\?([A-Za-z_][A-Za-z0-9_\\]*)`)},
}

// Built-in JavaScript rules: ES imports and re-exports, CommonJS require,
// dynamic and side-effect imports.
var jsRules = []patternRule{
	{KindImport, regexp.MustCompile(`import\s+.*?from\s+['"]([^'"]+)['"]`)},
	{KindImport, regexp.MustCompile(`export\s+.*?from\s+['"]([^'"]+)['"]`)},
	{KindImport, regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`)},
	{KindImport, regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`)},
	{KindImport, regexp.MustCompile(`import\s+['"]([^'"]+)['"]`)},
}

// Built-in Python rules. The plain import rule is anchored so it does not
// re-match the tail of a from-import line.
var pythonRules = []patternRule{
	{KindImport, regexp.MustCompile(`from\s+([^\s]+)\s+import`)},
	{KindImport, regexp.MustCompile(`^\s*import\s+([^\s,;]+)`)},
}

// Built-in Blade directive rules. Embedded PHP in templates is handled by
// running the PHP rules alongside these.
var bladeRules = []patternRule{
	{KindExtends, regexp.MustCompile(`@extends\s*\(\s*['"]([^'"]+)['"]`)},
	{KindImport, regexp.MustCompile(`@include(?:If)?\s*\(\s*['"]([^'"]+)['"]`)},
	{KindUses, regexp.MustCompile(`@component\s*\(\s*['"]([^'"]+)['"]`)},
	{KindUses, regexp.MustCompile(`@each\s*\(\s*['"]([^'"]+)['"]`)},
}

// scriptExtensions are tried in order when a relative JS specifier has no
// extension of its own.
var scriptExtensions = []string{".js", ".jsx", ".ts", ".tsx", ".vue", ".mjs", ".cjs"}

// phpExtractor extracts PHP dependency references and maps root namespaces
// to project directories.
type phpExtractor struct {
	roots map[string]string
	rules []patternRule
}

func newPHPExtractor(roots map[string]string, custom []patternRule) *phpExtractor {
	return &phpExtractor{
		roots: roots,
		rules: append(append([]patternRule{}, phpRules...), custom...),
	}
}

func (e *phpExtractor) Language() string { return languagePHP }

func (e *phpExtractor) Extensions() []string { return []string{".php"} }

func (e *phpExtractor) Extract(sourcePath string, content string) []Token {
	return scanRules(e.rules, content, func(rule patternRule, raw string, line int) []Token {
		if rule.kind == KindImplements {
			// The capture is a comma-separated interface list; every
			// interface is its own reference.
			var tokens []Token
			for _, part := range strings.Split(raw, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				tokens = append(tokens, Token{
					Raw:        part,
					Kind:       rule.kind,
					Line:       line,
					Candidates: []string{e.normalize(part)},
				})
			}
			return tokens
		}
		return []Token{{
			Raw:        raw,
			Kind:       rule.kind,
			Line:       line,
			Candidates: []string{e.normalize(raw)},
		}}
	})
}

// normalize converts a PHP reference into a candidate path. Namespaced names
// whose root is in the configured map become project-relative .php paths;
// everything else passes through unchanged and simply fails to resolve if it
// names nothing in the project.
func (e *phpExtractor) normalize(raw string) string {
	dep := strings.TrimPrefix(stripQuotes(raw), `\`)

	if strings.Contains(dep, `\`) {
		parts := strings.Split(dep, `\`)
		if dir, ok := e.roots[parts[0]]; ok {
			parts[0] = dir
			return strings.Join(parts, "/") + ".php"
		}
	}
	return dep
}

// bladeExtractor handles Blade templates: directive references plus the PHP
// rules for embedded PHP.
type bladeExtractor struct {
	php   *phpExtractor
	rules []patternRule
}

func newBladeExtractor(php *phpExtractor, custom []patternRule) *bladeExtractor {
	return &bladeExtractor{
		php:   php,
		rules: append(append([]patternRule{}, bladeRules...), custom...),
	}
}

func (e *bladeExtractor) Language() string { return languageBlade }

func (e *bladeExtractor) Extensions() []string { return []string{".blade.php"} }

func (e *bladeExtractor) Extract(sourcePath string, content string) []Token {
	tokens := scanRules(e.rules, content, func(rule patternRule, raw string, line int) []Token {
		candidates := normalizeBladeView(raw)
		if len(candidates) == 0 {
			return nil
		}
		return []Token{{Raw: raw, Kind: rule.kind, Line: line, Candidates: candidates}}
	})
	return append(tokens, e.php.Extract(sourcePath, content)...)
}

// normalizeBladeView maps a view name like "layouts.app" to
// "resources/views/layouts/app.blade.php". Package view references
// ("vendor::view") are skipped.
func normalizeBladeView(raw string) []string {
	name := stripQuotes(raw)
	if name == "" || strings.Contains(name, "::") {
		return nil
	}
	return []string{bladeViewRoot + "/" + strings.ReplaceAll(name, ".", "/") + ".blade.php"}
}

// jsExtractor extracts JavaScript and TypeScript module references.
type jsExtractor struct {
	rules []patternRule
}

func newJSExtractor(custom []patternRule) *jsExtractor {
	return &jsExtractor{
		rules: append(append([]patternRule{}, jsRules...), custom...),
	}
}

func (e *jsExtractor) Language() string { return languageJavaScript }

func (e *jsExtractor) Extensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".vue", ".mjs", ".cjs"}
}

func (e *jsExtractor) Extract(sourcePath string, content string) []Token {
	return scanRules(e.rules, content, func(rule patternRule, raw string, line int) []Token {
		candidates := normalizeJSSpecifier(sourcePath, raw)
		if len(candidates) == 0 {
			return nil
		}
		return []Token{{Raw: raw, Kind: rule.kind, Line: line, Candidates: candidates}}
	})
}

// normalizeJSSpecifier resolves relative specifiers against the source file's
// directory. A specifier without an extension yields one candidate per known
// script extension plus index forms. Bare package specifiers pass through
// unchanged.
func normalizeJSSpecifier(sourcePath string, raw string) []string {
	spec := stripQuotes(raw)
	if spec == "" {
		return nil
	}
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return []string{spec}
	}

	resolved := resolveRelative(sourcePath, spec)
	if resolved == "" {
		return nil
	}
	for _, ext := range scriptExtensions {
		if strings.HasSuffix(resolved, ext) {
			return []string{resolved}
		}
	}

	candidates := make([]string, 0, len(scriptExtensions)+2)
	for _, ext := range scriptExtensions {
		candidates = append(candidates, resolved+ext)
	}
	candidates = append(candidates, resolved+"/index.js", resolved+"/index.ts")
	return candidates
}

// pythonExtractor extracts Python module references.
type pythonExtractor struct {
	rules []patternRule
}

func newPythonExtractor(custom []patternRule) *pythonExtractor {
	return &pythonExtractor{
		rules: append(append([]patternRule{}, pythonRules...), custom...),
	}
}

func (e *pythonExtractor) Language() string { return languagePython }

func (e *pythonExtractor) Extensions() []string { return []string{".py"} }

func (e *pythonExtractor) Extract(sourcePath string, content string) []Token {
	return scanRules(e.rules, content, func(rule patternRule, raw string, line int) []Token {
		candidates := normalizePythonModule(sourcePath, raw)
		if len(candidates) == 0 {
			return nil
		}
		return []Token{{Raw: raw, Kind: rule.kind, Line: line, Candidates: candidates}}
	})
}

// normalizePythonModule maps a dotted module name to candidate paths, both
// the module file and the package __init__ form. Relative imports resolve
// against the source file's package.
func normalizePythonModule(sourcePath string, raw string) []string {
	mod := strings.TrimSpace(raw)
	if mod == "" {
		return nil
	}

	if strings.HasPrefix(mod, ".") {
		dots := 0
		for dots < len(mod) && mod[dots] == '.' {
			dots++
		}
		base := path.Dir(sourcePath)
		for i := 1; i < dots; i++ {
			base = path.Dir(base)
		}
		rest := mod[dots:]
		if rest == "" {
			return []string{path.Join(base, "__init__.py")}
		}
		rel := path.Join(base, strings.ReplaceAll(rest, ".", "/"))
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return nil
		}
		return []string{rel + ".py", rel + "/__init__.py"}
	}

	rel := strings.ReplaceAll(mod, ".", "/")
	return []string{rel + ".py", rel + "/__init__.py"}
}
