package pdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrthographyCompareCircumflexOrdering(t *testing.T) {
	// c sorts immediately before ĉ, which sorts before d (§4.4).
	require.True(t, orthographyLess("c", "ĉ"))
	require.True(t, orthographyLess("ĉ", "d"))
	require.True(t, orthographyLess("g", "ĝ"))
	require.True(t, orthographyLess("ĝ", "h"))
}

func TestOrthographyCompareIsCaseInsensitive(t *testing.T) {
	require.Equal(t, 0, orthographyCompare("Esperanto", "esperanto"))
	require.Equal(t, 0, orthographyCompare("ĈEFO", "ĉefo"))
}

func TestOrthographyCompareShorterPrefixSortsFirst(t *testing.T) {
	require.True(t, orthographyLess("vort", "vorto"))
	require.False(t, orthographyLess("vorto", "vort"))
}

func TestOrthographyCompareNFCEquivalence(t *testing.T) {
	// "ĉ" precomposed vs "c" + combining circumflex (U+0302) must fold to the
	// same sort key.
	decomposed := "ĉefo"
	precomposed := "ĉefo"
	require.Equal(t, 0, orthographyCompare(decomposed, precomposed))
}

func TestOrthographyDictionaryOrder(t *testing.T) {
	words := []string{"ĵurnalo", "zorgo", "urso", "ĉevalo", "cedro", "abio"}
	// expected order per the fold+remap rule: a,c,ĉ,e... j,ĵ... u,ŭ... z
	got := append([]string(nil), words...)
	sortStrings(got)

	require.Equal(t, []string{"abio", "cedro", "ĉevalo", "ĵurnalo", "urso", "zorgo"}, got)
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && orthographyLess(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
