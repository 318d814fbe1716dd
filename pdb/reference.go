// ===========================================================================
//
// File Name:  reference.go
//
// ==========================================================================

package pdb

// Reference identifies what a Link points at. It is a tagged union with two
// implementations, resolved to a concrete (article, section) pair no later
// than the link-resolution pass in C8 (§9's redesign of the original
// PdbDbReference union as a native Go interface).
type Reference interface {
	isReference()
}

// markReference names a mark by the value of its mrk attribute. It is
// unresolved until the compiler's mark table (Compiler.Marks) supplies the
// article/section it points at.
type markReference struct {
	Name string
}

func (markReference) isReference() {}

// directReference already carries its target; the compiler produces it for
// the generated reference headword of each translation entry, which points
// back at the owning section (§4.7.5).
type directReference struct {
	Article int
	Section int
}

func (directReference) isReference() {}

// Mark records a mrk="..." declaration site: the article/section it
// occurred in, collected during compilation and consulted when resolving
// markReference values.
type Mark struct {
	Name    string
	Article int
	Section int
}

// Link pairs a span position with the reference it points to. The compiler
// emits one Link per <ref> element and per generated translation
// headword it encounters; the resolver walks every Link afterward and
// rewrites its Span's Data1/Data2 fields to the resolved article/section
// pair. SS points directly at the spannable string that owns the span, so
// the link remains valid regardless of which section or scratch bag the
// span started life in.
type Link struct {
	SS      *SpannableString
	SpanIdx int
	Target  Reference
}

// resolve looks up l.Target against the mark table and returns the concrete
// (article, section) pair, or ok=false if a markReference names a mark that
// was never declared (§7's "unresolved mark" recoverable error).
func (l Link) resolve(marks map[string]Mark) (article, section int, ok bool) {
	switch t := l.Target.(type) {
	case directReference:
		return t.Article, t.Section, true
	case markReference:
		m, found := marks[t.Name]
		if !found {
			return 0, 0, false
		}
		return m.Article, m.Section, true
	default:
		return 0, 0, false
	}
}
