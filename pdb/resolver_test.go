package pdb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveLinksRewritesSpanData(t *testing.T) {
	ss := &SpannableString{}
	idx := ss.OpenSpan(SpanReference, 0, 0)
	ss.AppendString("x")
	ss.CloseSpan(idx)

	marks := map[string]Mark{"hundo": {Name: "hundo", Article: 3, Section: 1}}
	links := []Link{{SS: ss, SpanIdx: idx, Target: markReference{Name: "hundo"}}}

	unresolved := ResolveLinks(links, marks)

	require.Equal(t, 0, unresolved)
	require.Equal(t, uint16(3), ss.Spans[idx].Data1)
	require.Equal(t, uint16(1), ss.Spans[idx].Data2)
}

func TestResolveLinksReportsUnresolvedMarkAndZeroesSpan(t *testing.T) {
	ss := &SpannableString{}
	idx := ss.OpenSpan(SpanReference, 9, 9)
	ss.AppendString("x")
	ss.CloseSpan(idx)

	links := []Link{{SS: ss, SpanIdx: idx, Target: markReference{Name: "missing"}}}

	unresolved := ResolveLinks(links, map[string]Mark{})

	require.Equal(t, 1, unresolved)
	require.Equal(t, uint16(0), ss.Spans[idx].Data1)
	require.Equal(t, uint16(0), ss.Spans[idx].Data2)
}

func TestResolveLinksDirectReferenceNeedsNoMark(t *testing.T) {
	ss := &SpannableString{}
	idx := ss.OpenSpan(SpanReference, 0, 0)
	ss.AppendString("~")
	ss.CloseSpan(idx)

	links := []Link{{SS: ss, SpanIdx: idx, Target: directReference{Article: 4, Section: 2}}}

	unresolved := ResolveLinks(links, nil)

	require.Equal(t, 0, unresolved)
	require.Equal(t, uint16(4), ss.Spans[idx].Data1)
	require.Equal(t, uint16(2), ss.Spans[idx].Data2)
}

func TestEncodeArticleConcatenatesTitleAndSections(t *testing.T) {
	a := &Article{}
	a.Title.AppendString("kato")

	s := &Section{}
	s.Title.AppendString("I")
	s.Body.AppendString("body text")
	a.Sections = append(a.Sections, s)

	blob := EncodeArticle(a)

	var expected []byte
	expected = a.Title.WriteTo(expected)
	expected = s.Title.WriteTo(expected)
	expected = s.Body.WriteTo(expected)

	require.Equal(t, expected, blob)
}
