package extract

import (
	"os"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"archmap/internal/logging"
)

// PatternsFileName is the default filename for user-defined extraction rules.
const PatternsFileName = "patterns.toml"

// customRule is one user-defined extraction rule from patterns.toml.
type customRule struct {
	// Language names the built-in table this rule extends
	Language string `toml:"language"`

	// Kind is the relationship kind: import, extends, implements or uses
	Kind string `toml:"kind"`

	// Pattern is a regular expression whose first capture group is the
	// dependency reference
	Pattern string `toml:"pattern"`
}

// patternsFile is the root structure of patterns.toml.
type patternsFile struct {
	Version int          `toml:"version"`
	Rules   []customRule `toml:"rule"`
}

// loadCustomRules reads user-defined rules grouped by language. A missing
// file is not an error. Rules that fail to compile or carry an unknown kind
// are logged and skipped; one bad rule never blocks the rest.
func loadCustomRules(filePath string, logger *logging.Logger) map[string][]patternRule {
	if filePath == "" {
		return nil
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		logger.Warn("Failed to read patterns file", map[string]interface{}{
			"path":  filePath,
			"error": err.Error(),
		})
		return nil
	}

	var file patternsFile
	if err := toml.Unmarshal(data, &file); err != nil {
		logger.Warn("Failed to parse patterns file", map[string]interface{}{
			"path":  filePath,
			"error": err.Error(),
		})
		return nil
	}

	rules := make(map[string][]patternRule)
	for i, rule := range file.Rules {
		lang := strings.ToLower(strings.TrimSpace(rule.Language))
		kind := Kind(strings.ToLower(strings.TrimSpace(rule.Kind)))

		if lang == "" || rule.Pattern == "" {
			logger.Warn("Skipping incomplete custom rule", map[string]interface{}{
				"path": filePath,
				"rule": i,
			})
			continue
		}
		if !ValidKind(kind) {
			logger.Warn("Skipping custom rule with unknown kind", map[string]interface{}{
				"path": filePath,
				"rule": i,
				"kind": rule.Kind,
			})
			continue
		}

		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			logger.Warn("Skipping custom rule with invalid pattern", map[string]interface{}{
				"path":  filePath,
				"rule":  i,
				"error": err.Error(),
			})
			continue
		}
		if re.NumSubexp() < 1 {
			logger.Warn("Skipping custom rule without a capture group", map[string]interface{}{
				"path": filePath,
				"rule": i,
			})
			continue
		}

		rules[lang] = append(rules[lang], patternRule{kind: kind, re: re})
	}

	return rules
}
