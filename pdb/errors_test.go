package pdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorStringWithLocation(t *testing.T) {
	err := atLocation(newError(BadFormat, "bad kap"), "xml/a.xml", 3, 7)
	require.Equal(t, "xml/a.xml:3:7: bad format: bad kap", err.Error())
}

func TestErrorStringWithoutLocation(t *testing.T) {
	err := newError(IO, "disk full")
	require.Equal(t, "I/O error: disk full", err.Error())
}

func TestWrapErrorUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := wrapError(UnzipFailure, cause, "unzip failed")

	require.True(t, errors.Is(err, cause))
}

func TestAtLocationDoesNotMutateOriginal(t *testing.T) {
	base := newError(ParseError, "oops")
	located := atLocation(base, "f.xml", 1, 1)

	require.Empty(t, base.File)
	require.Equal(t, "f.xml", located.File)
}
