package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName produces the comparison form of a display name: NFC
// normalized, trimmed, inner whitespace runs collapsed to one space, and
// Unicode case folded.
//
// A cases.Caser is stateful, so one is created per call.
func NormalizeName(s string) string {
	s = norm.NFC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}
