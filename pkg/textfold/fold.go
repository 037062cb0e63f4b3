// Package textfold normalizes text for case-insensitive matching.
package textfold

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// String returns s in NFC form with Unicode case folding applied, so "Émile",
// "ÉMILE" and "émile" (composed or not) all fold to the same value. A Caser
// carries state, so a fresh one is made per call.
func String(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
