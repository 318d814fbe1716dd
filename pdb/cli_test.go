package pdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetStringArgReturnsValueFollowingFlag(t *testing.T) {
	v := GetStringArg([]string{"-i", "revo.zip", "-o", "out"}, "Input path")
	require.Equal(t, "revo.zip", v)
}

// GetStringArg's missing-value path calls os.Exit(1) and so cannot be
// exercised in-process; it mirrors eutils.GetStringArg's identical behavior.
