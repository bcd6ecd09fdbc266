// Package genre provides the case-insensitive genre comparison used for lookups.
//
// Genres are compared as literal strings under Unicode simple case folding,
// one rune at a time, the same relation strings.EqualFold uses. No trimming,
// slugging or pattern interpretation is applied, so "Sci-Fi" and "sci fi" are
// different genres while "FANTASY" and "fantasy" are the same. Multi-rune
// foldings such as "ß" to "ss" do not apply.
package genre

import (
	"encoding/hex"
	"strings"
	"unicode"
)

// Fold returns the case-folded form of g. Two genres match iff their folds are equal.
func Fold(g string) string {
	return strings.Map(foldRune, g)
}

// foldRune maps r to the smallest rune in its simple case-folding orbit, so
// every member of the orbit (k, K and the Kelvin sign, say) folds alike.
func foldRune(r rune) rune {
	lowest := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < lowest {
			lowest = f
		}
	}
	return lowest
}

// Equal reports whether a and b name the same genre.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// Key returns an index-safe encoding of the folded genre. The hex form has a
// fixed alphabet, so it can be embedded in a composite key without any
// separator ever appearing inside it.
func Key(g string) string {
	return hex.EncodeToString([]byte(Fold(g)))
}
