//go:build cgo

package symbols

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

const treeSitterAvailable = true

// declarationKinds maps tree-sitter node types to declaration kinds.
var declarationKinds = map[string]string{
	"class_declaration":              "class",
	"class_definition":               "class",
	"interface_declaration":          "interface",
	"trait_declaration":              "trait",
	"function_definition":            "function",
	"function_declaration":           "function",
	"generator_function_declaration": "function",
	"method_declaration":             "method",
	"method_definition":              "method",
}

func grammarFor(language string) *sitter.Language {
	switch language {
	case languagePHP:
		return php.GetLanguage()
	case languageJavaScript:
		return javascript.GetLanguage()
	case languageTypeScript:
		return typescript.GetLanguage()
	case languageTSX:
		return tsx.GetLanguage()
	case languagePython:
		return python.GetLanguage()
	}
	// Blade and Vue mix markup with code; the regex scan handles them.
	return nil
}

// treeSitterFirst parses content and returns its first named declaration in
// document order, or nil when the language has no grammar or nothing is
// declared.
func treeSitterFirst(language, content string) *Declaration {
	grammar := grammarFor(language)
	if grammar == nil {
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(grammar)
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(content))
	if err != nil {
		return nil
	}

	return firstNamedDeclaration(tree.RootNode(), []byte(content))
}

func firstNamedDeclaration(root *sitter.Node, source []byte) *Declaration {
	var found *Declaration

	var walk func(*sitter.Node) bool
	walk = func(node *sitter.Node) bool {
		if node == nil {
			return false
		}
		if kind, ok := declarationKinds[node.Type()]; ok {
			if name := nodeName(node, source); name != "" {
				found = &Declaration{
					Name: name,
					Kind: kind,
					Line: int(node.StartPoint().Row) + 1,
				}
				return true
			}
		}
		for i := uint32(0); i < node.ChildCount(); i++ {
			if walk(node.Child(int(i))) {
				return true
			}
		}
		return false
	}

	walk(root)
	return found
}

func nodeName(node *sitter.Node, source []byte) string {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return strings.TrimSpace(string(source[nameNode.StartByte():nameNode.EndByte()]))
}
