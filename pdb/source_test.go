package pdb

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ArchiveSource is not exercised by these tests (Build in build_test.go
// also runs against a directory source) since driving it for real requires
// the external unzip binary and a prepared archive fixture; DirSource below
// covers the Source contract directly.

func TestDirSourceListMatchesNestedGlob(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "xml"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "xml", "a.xml"), []byte("<a/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "xml", "b.xml"), []byte("<b/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "cfg.txt"), []byte("x"), 0o644))

	s := NewDirSource(root)
	got, err := s.List("xml/*.xml")
	require.Nil(t, err)
	require.Equal(t, []string{"xml/a.xml", "xml/b.xml"}, got)
}

func TestDirSourceListMatchesBareBasenameGlob(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "xml"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "xml", "a.xml"), []byte("<a/>"), 0o644))

	s := NewDirSource(root)
	got, err := s.List("*.xml")
	require.Nil(t, err)
	require.Equal(t, []string{"xml/a.xml"}, got)
}

func TestDirSourceOpenReadsFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "cfg.xml"), []byte("hello"), 0o644))

	s := NewDirSource(root)
	r, err := s.Open("cfg.xml")
	require.Nil(t, err)
	defer r.Close()

	data, rerr := io.ReadAll(r)
	require.NoError(t, rerr)
	require.Equal(t, "hello", string(data))
}

func TestDirSourceOpenMissingFileIsIOError(t *testing.T) {
	s := NewDirSource(t.TempDir())
	_, err := s.Open("missing.xml")
	require.NotNil(t, err)
	require.Equal(t, IO, err.Kind)
}
