// ===========================================================================
//
// File Name:  xmlevents.go
//
// ==========================================================================

package pdb

import (
	"encoding/xml"
	"io"
	"path"
)

// EventKind distinguishes the three event shapes C2 delivers, plus the
// end-of-input marker EventEOF.
type EventKind int

const (
	EventStartElement EventKind = iota
	EventEndElement
	EventCharData
	EventEOF
)

// entIncludeAttr is the attribute name that marks a cross-file inclusion
// point in the source corpus. The real tokenizer this component replaces
// resolved such references through a DTD-level external entity; driving
// encoding/xml.Decoder directly, the same effect is reached by detecting
// this attribute and transparently splicing in the referenced document's
// event stream in place of the marker element.
const entIncludeAttr = "ent-src"

// Event is one parser event, in document order.
type Event struct {
	Kind     EventKind
	Name     string
	AttrKeys []string
	AttrVals []string
	Text     []byte
}

// xmlFrame is one level of the nested-decoder stack: the enclosing
// document's decoder paused while an externally-referenced document's
// events are being delivered.
type xmlFrame struct {
	filename string
	base     string
	closer   io.Closer
	decoder  *xml.Decoder
}

// XMLEventSource is a thin pull-model wrapper around encoding/xml.Decoder
// (§4.2): it is not a grammar of its own, only the glue between a Source
// (C1) and the decoder, plus external-reference splicing and location
// tracking for error messages.
type XMLEventSource struct {
	source Source
	stack  []*xmlFrame
}

// NewXMLEventSource opens filename from source and returns an event
// source positioned at the start of its document.
func NewXMLEventSource(source Source, filename string) (*XMLEventSource, *Error) {
	s := &XMLEventSource{source: source}
	if err := s.push(filename); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *XMLEventSource) push(filename string) *Error {
	r, err := s.source.Open(filename)
	if err != nil {
		return err
	}

	dec := xml.NewDecoder(r)
	dec.Strict = true

	s.stack = append(s.stack, &xmlFrame{
		filename: filename,
		base:     path.Dir(filename),
		closer:   r,
		decoder:  dec,
	})
	return nil
}

func (s *XMLEventSource) top() *xmlFrame {
	return s.stack[len(s.stack)-1]
}

// Next returns the next event in document order, transparently descending
// into and returning from spliced-in external references. EventEOF is
// returned once the outermost document is exhausted.
func (s *XMLEventSource) Next() (Event, *Error) {
	for len(s.stack) > 0 {
		f := s.top()
		tok, err := f.decoder.Token()

		if err == io.EOF {
			f.closer.Close()
			s.stack = s.stack[:len(s.stack)-1]
			continue
		}
		if err != nil {
			return Event{}, s.parseError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			keys, vals := splitAttrs(t.Attr)
			if href, ok := attrValue(keys, vals, entIncludeAttr); ok {
				// Discard the marker element's own subtree (it carries no
				// content of its own, only the pointer to what replaces it)
				// so its matching end tag never leaks through as a
				// spurious event once we return to this frame.
				if serr := skipElementBody(f.decoder); serr != nil {
					return Event{}, s.parseError(serr)
				}
				if perr := s.push(path.Join(f.base, href)); perr != nil {
					return Event{}, perr
				}
				continue
			}
			return Event{Kind: EventStartElement, Name: t.Name.Local, AttrKeys: keys, AttrVals: vals}, nil

		case xml.EndElement:
			return Event{Kind: EventEndElement, Name: t.Name.Local}, nil

		case xml.CharData:
			return Event{Kind: EventCharData, Text: append([]byte(nil), t...)}, nil

		default:
			continue
		}
	}

	return Event{Kind: EventEOF}, nil
}

// Location returns the current filename and an approximate line/column for
// error reporting. Both come from the decoder's InputPos, i.e. its current
// read position, which may lie past the offending token; advisory only.
func (s *XMLEventSource) Location() (filename string, line, column int) {
	if len(s.stack) == 0 {
		return "", 0, 0
	}
	f := s.top()
	line, column = f.decoder.InputPos()
	return f.filename, line, column
}

func (s *XMLEventSource) parseError(cause error) *Error {
	filename, line, column := s.Location()
	return atLocation(wrapError(ParseError, cause, "%s", cause.Error()), filename, line, column)
}

// Close releases every pending frame, innermost first.
func (s *XMLEventSource) Close() {
	for i := len(s.stack) - 1; i >= 0; i-- {
		s.stack[i].closer.Close()
	}
	s.stack = nil
}

// skipElementBody consumes and discards every token up to and including the
// end tag of the start element already read from dec. A self-closing marker
// has just that one synthesized end tag to discard; one with (unexpected but
// tolerated) nested content has that content discarded along with it.
func skipElementBody(dec *xml.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func splitAttrs(attrs []xml.Attr) (keys, vals []string) {
	keys = make([]string, len(attrs))
	vals = make([]string, len(attrs))
	for i, a := range attrs {
		keys[i] = a.Name.Local
		vals[i] = a.Value
	}
	return keys, vals
}

func attrValue(keys, vals []string, name string) (string, bool) {
	for i, k := range keys {
		if k == name {
			return vals[i], true
		}
	}
	return "", false
}
