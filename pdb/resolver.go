// ===========================================================================
//
// File Name:  resolver.go
//
// ==========================================================================

package pdb

// ResolveLinks runs the deferred-reference resolution pass (C8): every Link
// collected during compilation is dereferenced against marks and its span's
// Data1/Data2 fields are rewritten to the resolved (article, section) pair.
// An unresolved mark reference is reported as a warning and its span is left
// pointing at (0, 0) rather than aborting the build.
func ResolveLinks(links []Link, marks map[string]Mark) int {
	unresolved := 0

	for _, l := range links {
		article, section, ok := l.resolve(marks)
		if !ok {
			Warnf("unresolved reference %v", l.Target)
			unresolved++
			article, section = 0, 0
		}

		span := &l.SS.Spans[l.SpanIdx]
		span.Data1 = uint16(article)
		span.Data2 = uint16(section)
	}

	return unresolved
}

// EncodeArticle renders one article's blob per §4.8: the title followed by
// each section's title and body, each as a spannable string, with no outer
// framing of its own (the caller supplies the length-prefixed framing of
// §4.9 when embedding this into the top-level database).
func EncodeArticle(a *Article) []byte {
	var buf []byte
	buf = a.Title.WriteTo(buf)
	for _, s := range a.Sections {
		buf = s.Title.WriteTo(buf)
		buf = s.Body.WriteTo(buf)
	}
	return buf
}
