// ===========================================================================
//
// File Name:  cli.go
//
// ==========================================================================

package pdb

import (
	"fmt"
	"os"
)

// GetStringArg consumes and returns the value following a flag, following
// the teacher's argument-validation convention: args[0] is the flag just
// matched by the caller's switch, args[1] is its value. Missing a value is
// a fatal usage error, not a recoverable one.
func GetStringArg(args []string, description string) string {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "\nERROR: Value not supplied for %s\n", description)
		os.Exit(1)
	}
	return args[1]
}
