// ===========================================================================
//
// File Name:  roman.go
//
// ==========================================================================

package pdb

import (
	"strconv"
	"strings"
)

const romanCharsA = "IXCM"
const romanCharsB = "VLD"

// romanNumeral renders ordinal (1-3999) as an uppercase Roman numeral, used
// to label subarticles (§4.7.7). Values outside that range fall back to
// plain decimal, matching the source tool's behavior for pathological
// input rather than producing a malformed numeral.
func romanNumeral(ordinal int) string {
	if ordinal < 1 || ordinal > 3999 {
		return strconv.Itoa(ordinal)
	}

	dec := strconv.Itoa(ordinal)
	var b strings.Builder

	for i, c := range dec {
		pos := len(dec) - 1 - i

		switch c {
		case '1':
			b.WriteByte(romanCharsA[pos])
		case '2':
			b.WriteByte(romanCharsA[pos])
			b.WriteByte(romanCharsA[pos])
		case '3':
			b.WriteByte(romanCharsA[pos])
			b.WriteByte(romanCharsA[pos])
			b.WriteByte(romanCharsA[pos])
		case '4':
			b.WriteByte(romanCharsA[pos])
			b.WriteByte(romanCharsB[pos])
		case '5', '6', '7', '8':
			b.WriteByte(romanCharsB[pos])
			for n := 0; '5'+rune(n) < c; n++ {
				b.WriteByte(romanCharsA[pos])
			}
		case '9':
			b.WriteByte(romanCharsA[pos])
			b.WriteByte(romanCharsA[pos+1])
		}
	}

	return b.String()
}
