package pdb

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentBuildsTreeAndMergesAdjacentText(t *testing.T) {
	d := NewDocument()
	root := d.NewElement("kap")
	d.AddChild(root, d.NewText(root, []byte("kat")))
	d.NewText(root, []byte("o")) // must merge into the previous text node

	require.Len(t, root.Children, 1)
	require.Equal(t, TextNode, root.Children[0].Kind)
	require.Equal(t, "kato", string(root.Children[0].Text))
}

func TestNodeAttrLookup(t *testing.T) {
	n := &Node{AttrKeys: []string{"mrk", "tip"}, AttrVals: []string{"hundo", "vid"}}

	v, ok := n.Attr("tip")
	require.True(t, ok)
	require.Equal(t, "vid", v)

	_, ok = n.Attr("missing")
	require.False(t, ok)
}

func TestFirstChildElement(t *testing.T) {
	d := NewDocument()
	root := d.NewElement("drv")
	d.AddChild(root, d.NewText(root, []byte("text")))
	kap := d.NewElement("kap")
	d.AddChild(root, kap)

	require.Same(t, kap, root.FirstChildElement("kap"))
	require.Nil(t, root.FirstChildElement("subart"))
}

func TestAppendAllTextSkipsExcluded(t *testing.T) {
	d := NewDocument()
	root := d.NewElement("drv")
	d.AddChild(root, d.NewText(root, []byte("keep ")))

	fnt := d.NewElement("fnt")
	d.AddChild(fnt, d.NewText(fnt, []byte("drop")))
	d.AddChild(root, fnt)

	d.AddChild(root, d.NewText(root, []byte("also keep")))

	var buf bytes.Buffer
	root.AppendAllText(&buf, map[string]bool{"fnt": true})

	require.Equal(t, "keep also keep", buf.String())
}

func TestParseDocumentBuildsTreeFromXML(t *testing.T) {
	src := newMemSource(map[string]string{
		"xml/test.xml": `<drv>hello<em>!</em></drv>`,
	})

	evs, err := NewXMLEventSource(src, "xml/test.xml")
	require.Nil(t, err)
	defer evs.Close()

	doc, perr := ParseDocument(evs)
	require.Nil(t, perr)
	require.NotNil(t, doc.Root)
	require.Equal(t, "drv", doc.Root.Name)
	require.Len(t, doc.Root.Children, 2)
	require.Equal(t, "hello", string(doc.Root.Children[0].Text))
	require.Equal(t, "em", doc.Root.Children[1].Name)
}

func TestParseDocumentRejectsEmptyDocument(t *testing.T) {
	src := newMemSource(map[string]string{"xml/empty.xml": ``})

	evs, err := NewXMLEventSource(src, "xml/empty.xml")
	require.Nil(t, err)
	defer evs.Close()

	_, perr := ParseDocument(evs)
	require.NotNil(t, perr)
	require.Equal(t, BadFormat, perr.Kind)
}

// memSource is an in-memory Source backing tests that exercise the C1/C2/C3
// pipeline without touching the filesystem.
type memSource struct {
	files map[string]string
}

func newMemSource(files map[string]string) *memSource {
	return &memSource{files: files}
}

func (m *memSource) List(glob string) ([]string, *Error) {
	var out []string
	for name := range m.files {
		out = append(out, name)
	}
	return out, nil
}

func (m *memSource) Open(relPath string) (io.ReadCloser, *Error) {
	data, ok := m.files[relPath]
	if !ok {
		return nil, newError(IO, "no such file: %s", relPath)
	}
	return io.NopCloser(bytes.NewReader([]byte(data))), nil
}
