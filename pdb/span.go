// ===========================================================================
//
// File Name:  span.go
//
// ==========================================================================

package pdb

import (
	"encoding/binary"
	"unicode/utf16"
)

// SpanKind is the fixed, wire-compatible span kind enumeration (§6).
type SpanKind uint8

const (
	SpanReference SpanKind = iota
	SpanSuperscript
	SpanItalic
	SpanNote
	SpanBold
	SpanNone
)

// Span is a single contiguous, possibly-nested range over a spannable
// string's text, addressed in UTF-16 code units (§3).
type Span struct {
	Start  int
	Length int
	Data1  uint16
	Data2  uint16
	Kind   SpanKind
}

// SpannableString is a UTF-8 text buffer plus an ordered sequence of spans
// (§3). Spans may be built out of final order (nesting is resolved by the
// compiler's explicit stack) but are stored in the order they were opened.
type SpannableString struct {
	Text  []byte
	Spans []Span
}

// UTF16Len returns the number of UTF-16 code units text encodes to. This is
// the coordinate domain for every Span, per spec §3: not bytes, not runes.
func UTF16Len(text []byte) int {
	return len(utf16.Encode([]rune(string(text))))
}

// utf16Len is the same computation over the string already accumulated in a
// SpannableString, used by the compiler to stamp span Start/Length.
func (s *SpannableString) utf16Len() int {
	return UTF16Len(s.Text)
}

// AppendByte appends a single byte (used for ClosingCharacter frames, §4.7.1).
func (s *SpannableString) AppendByte(c byte) {
	s.Text = append(s.Text, c)
}

// AppendString appends raw, already-normalized text.
func (s *SpannableString) AppendString(str string) {
	s.Text = append(s.Text, str...)
}

// OpenSpan records the current UTF-16 offset as a span's start and returns
// its index in s.Spans so a later CloseSpan can fill in the length.
func (s *SpannableString) OpenSpan(kind SpanKind, data1, data2 uint16) int {
	idx := len(s.Spans)
	s.Spans = append(s.Spans, Span{
		Start: s.utf16Len(),
		Kind:  kind,
		Data1: data1,
		Data2: data2,
	})
	return idx
}

// CloseSpan computes the length of the span opened at idx from the current
// text position (§4.7.1's CloseSpan stack frame).
func (s *SpannableString) CloseSpan(idx int) {
	s.Spans[idx].Length = s.utf16Len() - s.Spans[idx].Start
}

// WriteTo appends the binary encoding of s, per spec §4.8, to buf and
// returns the extended slice. Empty (zero-length) spans are omitted, as
// required by §3's "omitted at write time" invariant.
func (s *SpannableString) WriteTo(buf []byte) []byte {
	n := UTF16Len(s.Text)
	var tmp [2]byte

	binary.LittleEndian.PutUint16(tmp[:], uint16(n))
	buf = append(buf, tmp[:]...)
	buf = append(buf, s.Text...)

	for _, sp := range s.Spans {
		if sp.Length == 0 {
			continue
		}
		buf = appendUint16(buf, uint16(sp.Length))
		buf = appendUint16(buf, uint16(sp.Start))
		buf = appendUint16(buf, sp.Data1)
		buf = appendUint16(buf, sp.Data2)
		buf = append(buf, byte(sp.Kind))
	}

	// zero-length terminator span
	buf = appendUint16(buf, 0)

	return buf
}

func appendUint16(buf []byte, v uint16) []byte {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}
