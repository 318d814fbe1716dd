// ===========================================================================
//
// File Name:  main.go
//
// ==========================================================================

package main

import (
	"fmt"
	"os"

	"github.com/nroberts/prevodb/pdb"
)

var prevodbHelp = `
prevodb compiles a ReVo XML dictionary corpus into a compact binary database.

  prevodb -i <input> -o <output> [-s] [-verbose] [-stats] [-dump-html]

  -i, -in         source directory or .zip archive (required)
  -o, -out        output directory, or output file with -s (required)
  -s, -single     write a single-file database instead of per-directory output
  -verbose        print each source file as it compiles
  -stats          print a build summary banner on success
  -dump-html      additionally write <out>/debug/dump.html.gz
`

func main() {
	args := os.Args[1:]

	if len(args) < 1 {
		fmt.Fprint(os.Stderr, prevodbHelp)
		os.Exit(1)
	}

	var opts pdb.Options

	for len(args) > 0 {
		switch args[0] {
		case "-i", "-in", "--in":
			opts.In = pdb.GetStringArg(args, "Input path")
			args = args[1:]
		case "-o", "-out", "--out":
			opts.Out = pdb.GetStringArg(args, "Output path")
			args = args[1:]
		case "-s", "-single", "--single":
			opts.Single = true
		case "-verbose":
			opts.Verbose = true
		case "-stats":
			opts.Stats = true
		case "-dump-html":
			opts.DumpHTML = true
		case "-h", "-help", "--help":
			fmt.Fprint(os.Stderr, prevodbHelp)
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "\nERROR: Unrecognized option %s\n", args[0])
			os.Exit(1)
		}

		args = args[1:]
	}

	if opts.In == "" || opts.Out == "" {
		fmt.Fprint(os.Stderr, prevodbHelp)
		os.Exit(1)
	}

	if err := pdb.Build(opts); err != nil {
		pdb.Fatalf("%s", err.Error())
		os.Exit(1)
	}
}
