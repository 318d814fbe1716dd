// ===========================================================================
//
// File Name:  dump.go
//
// ==========================================================================

package pdb

import (
	"bytes"
	"html"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/pgzip"
)

// spanOpenTag and spanCloseTag give the opening/closing HTML wrapper for a
// span kind. The REFERENCE and NOTE kinds are not in these tables;
// writeSpanOpen and writeSpanClose handle them directly.
var spanOpenTag = map[SpanKind]string{
	SpanSuperscript: "<sup>",
	SpanItalic:      "<i>",
	SpanBold:        "<b>",
}

var spanCloseTag = map[SpanKind]string{
	SpanSuperscript: "</sup>",
	SpanItalic:      "</i>",
	SpanBold:        "</b>",
}

// dumpSpannable renders ss as escaped inline HTML into buf. Unlike the
// binary emitter, this path escapes & < > " properly (the &glt; typo of
// the tool this was modeled on, §9(d), does not occur here).
func dumpSpannable(buf *bytes.Buffer, ss *SpannableString) {
	type boundary struct {
		pos   int
		open  bool
		kind  SpanKind
		span  Span
	}

	var boundaries []boundary
	for _, sp := range ss.Spans {
		if sp.Length == 0 {
			continue
		}
		boundaries = append(boundaries,
			boundary{pos: sp.Start, open: true, kind: sp.Kind, span: sp},
			boundary{pos: sp.Start + sp.Length, open: false, kind: sp.Kind, span: sp},
		)
	}
	sort.SliceStable(boundaries, func(i, j int) bool { return boundaries[i].pos < boundaries[j].pos })

	text := []rune(string(ss.Text))
	// positions in boundaries are UTF-16 offsets; text here is UTF-8
	// runes, so a surrogate-pair-aware reader would need utf16 indexing.
	// The debug dump only needs to be readable, not exact, so it walks
	// runes directly and maps span edges by rune index approximation.
	bi := 0
	for i, r := range text {
		for bi < len(boundaries) && boundaries[bi].pos == i {
			b := boundaries[bi]
			if b.open {
				writeSpanOpen(buf, b.span)
			} else {
				writeSpanClose(buf, b.kind)
			}
			bi++
		}
		buf.WriteString(html.EscapeString(string(r)))
	}
	for bi < len(boundaries) {
		if !boundaries[bi].open {
			writeSpanClose(buf, boundaries[bi].kind)
		}
		bi++
	}
}

func writeSpanOpen(buf *bytes.Buffer, sp Span) {
	switch sp.Kind {
	case SpanReference:
		buf.WriteString("<a href=\"#mark\">")
	case SpanNote:
		buf.WriteString("<span class=\"note\">")
	default:
		buf.WriteString(spanOpenTag[sp.Kind])
	}
}

func writeSpanClose(buf *bytes.Buffer, kind SpanKind) {
	switch kind {
	case SpanReference:
		buf.WriteString("</a>")
	case SpanNote:
		buf.WriteString("</span>")
	default:
		buf.WriteString(spanCloseTag[kind])
	}
}

// WriteDebugDump renders every article's spannable strings as HTML and
// gzip-compresses the result with pgzip to <out>/debug/dump.html.gz (A4).
func WriteDebugDump(dir string, articles []*Article) *Error {
	debugDir := filepath.Join(dir, "debug")
	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		return wrapError(IO, err, "creating %s", debugDir)
	}

	var html bytes.Buffer
	html.WriteString("<!doctype html><meta charset=\"utf-8\">\n")

	for _, a := range articles {
		html.WriteString("<article>\n<h1>")
		dumpSpannable(&html, &a.Title)
		html.WriteString("</h1>\n")

		for _, s := range a.Sections {
			html.WriteString("<section>\n<h2>")
			dumpSpannable(&html, &s.Title)
			html.WriteString("</h2>\n<p>")
			dumpSpannable(&html, &s.Body)
			html.WriteString("</p>\n</section>\n")
		}

		html.WriteString("</article>\n")
	}

	path := filepath.Join(debugDir, "dump.html.gz")
	f, err := os.Create(path)
	if err != nil {
		return wrapError(IO, err, "creating %s", path)
	}
	defer f.Close()

	gz := pgzip.NewWriter(f)
	if _, err := gz.Write(html.Bytes()); err != nil {
		gz.Close()
		return wrapError(IO, err, "writing %s", path)
	}
	if err := gz.Close(); err != nil {
		return wrapError(IO, err, "closing %s", path)
	}

	return nil
}
