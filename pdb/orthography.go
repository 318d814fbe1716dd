// ===========================================================================
//
// File Name:  orthography.go
//
// ==========================================================================

package pdb

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// foldCaser performs Unicode default case folding, the first step of the
// orthography sort key (§4.4). The article compiler lower-cases index
// entries with strings.ToLower, not with this caser.
var foldCaser = cases.Fold()

// circumflexBase maps an Esperanto circumflex/breve letter to the rune value
// of its Latin base letter.
var circumflexBase = map[rune]rune{
	'ĉ': 'c',
	'ĝ': 'g',
	'ĥ': 'h',
	'ĵ': 'j',
	'ŝ': 's',
	'ŭ': 'u',
}

// orthographyKey assigns the sort value described in spec §4.4: fold the
// rune, then if it is one of the six Esperanto diacritic letters place it
// immediately after its Latin base letter, otherwise double its code point.
func orthographyKey(r rune) uint32 {
	folded := foldRune(r)

	if base, ok := circumflexBase[folded]; ok {
		return uint32(base)*2 + 1
	}
	return uint32(folded) * 2
}

// foldRune case-folds a single rune using the same table as foldCaser.
func foldRune(r rune) rune {
	folded := []rune(foldCaser.String(string(r)))
	if len(folded) == 0 {
		return r
	}
	return folded[0]
}

// normalizeNFC composes combining sequences (e.g. base "c" + U+0302) into
// their precomposed form (ĉ) before folding, so XML sources that spell
// circumflex letters as decomposed sequences still sort and fold correctly.
func normalizeNFC(s string) string {
	return norm.NFC.String(s)
}

// orthographyCompare compares two strings using Esperanto orthography:
// code-point-wise on orthographyKey, shorter prefix sorts first.
func orthographyCompare(a, b string) int {
	ra := []rune(normalizeNFC(a))
	rb := []rune(normalizeNFC(b))

	for i := 0; i < len(ra) && i < len(rb); i++ {
		ka := orthographyKey(ra[i])
		kb := orthographyKey(rb[i])
		if ka < kb {
			return -1
		}
		if ka > kb {
			return 1
		}
	}

	switch {
	case len(ra) < len(rb):
		return -1
	case len(ra) > len(rb):
		return 1
	default:
		return 0
	}
}

// orthographyLess reports whether a sorts strictly before b.
func orthographyLess(a, b string) bool {
	return orthographyCompare(a, b) < 0
}
