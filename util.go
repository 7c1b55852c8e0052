package cdl

import (
	"strings"

	"github.com/boynton/cdl/util"
)

func splitPath(path string) []string {
	return util.SplitPath(path)
}

// unquote strips the surrounding quotes of a string literal token. No escape
// processing is done.
func unquote(tok Token) string {
	if tok.IsQuoted() {
		return tok.Text[1 : len(tok.Text)-1]
	}
	return tok.Text
}

func isName(s string) bool {
	return util.IsValidName(s) && !IsSectionKeyword(s)
}

// splitAttributeName splits "var:name" into owner and name. ok is false if
// there is no colon.
func splitAttributeName(s string) (owner, name string, ok bool) {
	return util.SplitAt(s, ':')
}

func quote(s string) string {
	return `"` + s + `"`
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
