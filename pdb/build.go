// ===========================================================================
//
// File Name:  build.go
//
// ==========================================================================

package pdb

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Options configures one compilation run (A1).
type Options struct {
	In       string
	Out      string
	Single   bool
	Verbose  bool
	Stats    bool
	DumpHTML bool
}

// Build runs the full pipeline: open the source, load the language
// registry, compile every article, resolve links, and emit the requested
// output layout. It is the single entry point cmd/prevodb drives.
func Build(opts Options) *Error {
	stats := NewStats()

	source, err := openSource(opts.In)
	if err != nil {
		return err
	}

	lingvojData, err := readAll(source, "cfg/lingvoj.xml")
	if err != nil {
		return err
	}

	reg, err := NewLangRegistry(lingvojData)
	if err != nil {
		return err
	}
	stats.Languages = len(reg.entries)

	articleFiles, err := source.List("xml/*.xml")
	if err != nil {
		return err
	}

	compiler := NewCompiler(reg)

	for _, filename := range articleFiles {
		if opts.Verbose {
			Warnf("compiling %s", filename)
		}

		evs, eerr := NewXMLEventSource(source, filename)
		if eerr != nil {
			return eerr
		}

		doc, derr := ParseDocument(evs)
		evs.Close()
		if derr != nil {
			return derr
		}

		if _, cerr := compiler.CompileArticle(doc, filename); cerr != nil {
			return cerr
		}
	}

	stats.Articles = len(compiler.Articles)
	stats.Warnings = ResolveLinks(compiler.Links, compiler.Marks)

	if opts.Single {
		if err := WriteSingleFile(opts.Out, compiler.Articles, reg); err != nil {
			return err
		}
	} else {
		if err := WriteMultiFile(opts.Out, compiler.Articles, reg); err != nil {
			return err
		}
	}

	if opts.DumpHTML {
		// opts.Out names a file in single-file mode, so the debug dump goes
		// beside it rather than under it (§4.10/§6's "<out>/debug/..." is
		// written relative to the output directory, not the output file).
		dumpDir := opts.Out
		if opts.Single {
			dumpDir = filepath.Dir(opts.Out)
		}
		if err := WriteDebugDump(dumpDir, compiler.Articles); err != nil {
			return err
		}
	}

	if opts.Stats {
		PrintBanner()
		stats.PrintSummary()
	}

	return nil
}

// openSource picks a directory or archive Source depending on whether in
// names a directory or a file (§4.1).
func openSource(in string) (Source, *Error) {
	info, err := os.Stat(in)
	if err != nil {
		return nil, wrapError(IO, err, "opening %s", in)
	}

	if info.IsDir() {
		return NewDirSource(in), nil
	}

	if !strings.HasSuffix(strings.ToLower(in), ".zip") {
		return nil, newError(BadFormat, "%s: expected a directory or a .zip archive", in)
	}

	return NewArchiveSource(in, "revo"), nil
}

// readAll reads relPath from source fully into memory. Used for small,
// whole-file inputs like cfg/lingvoj.xml; article XML is streamed instead.
func readAll(source Source, relPath string) ([]byte, *Error) {
	r, err := source.Open(relPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var buf []byte
	chunk := make([]byte, sourceReadBufSize)
	for {
		n, rerr := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, wrapError(IO, rerr, "reading %s", relPath)
		}
	}
	return buf, nil
}
