//go:build !cgo

package symbols

const treeSitterAvailable = false

// treeSitterFirst is unavailable without cgo; FirstDeclaration falls back
// to the regex scan.
func treeSitterFirst(language, content string) *Declaration {
	return nil
}
