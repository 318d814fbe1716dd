package pdb

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSingleFileLayout(t *testing.T) {
	reg, err := NewLangRegistry([]byte(`<?xml version="1.0"?>
<lingvoj><lingvo kodo="eng">English</lingvo></lingvoj>`))
	require.Nil(t, err)
	reg.Trie("eng").addWord("hundo", "", 0, 0)

	a := &Article{}
	a.Title.AppendString("hundo")
	s := &Section{}
	s.Body.AppendString("besto.")
	a.Sections = append(a.Sections, s)

	path := filepath.Join(t.TempDir(), "revo.db")
	werr := WriteSingleFile(path, []*Article{a}, reg)
	require.Nil(t, werr)

	buf, rerr := os.ReadFile(path)
	require.NoError(t, rerr)
	require.Equal(t, "PRDB", string(buf[0:4]))

	articleCount := binary.LittleEndian.Uint32(buf[4:8])
	require.Equal(t, uint32(1), articleCount)

	blobOffset := binary.LittleEndian.Uint32(buf[8:12])
	blobLen := binary.LittleEndian.Uint32(buf[blobOffset:])
	blob := buf[blobOffset+4 : blobOffset+4+blobLen]
	require.Equal(t, EncodeArticle(a), blob)

	langCountPos := int(blobOffset) + 4 + int(blobLen)
	langCount := binary.LittleEndian.Uint32(buf[langCountPos:])
	require.Equal(t, uint32(1), langCount)
}

func TestWriteSingleFileSkipsEmptyLanguageTries(t *testing.T) {
	reg, err := NewLangRegistry([]byte(`<?xml version="1.0"?>
<lingvoj>
<lingvo kodo="eng">English</lingvo>
<lingvo kodo="fra">French</lingvo>
</lingvoj>`))
	require.Nil(t, err)
	reg.Trie("eng").addWord("hundo", "", 0, 0)
	// "fra" stays empty

	langs := collectLangIndices(reg)
	require.Len(t, langs, 1)
	require.Equal(t, "eng", langs[0].Code)
}

func TestWriteMultiFileWritesPerArticleBlobs(t *testing.T) {
	reg, err := NewLangRegistry([]byte(`<?xml version="1.0"?>
<lingvoj><lingvo kodo="eng">English</lingvo></lingvoj>`))
	require.Nil(t, err)

	a0 := &Article{Index: 0}
	a0.Title.AppendString("unua")
	a1 := &Article{Index: 1}
	a1.Title.AppendString("dua")

	dir := t.TempDir()
	werr := WriteMultiFile(dir, []*Article{a0, a1}, reg)
	require.Nil(t, werr)

	blob0, rerr := os.ReadFile(filepath.Join(dir, "assets", "articles", "article-0.bin"))
	require.NoError(t, rerr)
	require.Equal(t, EncodeArticle(a0), blob0)

	blob1, rerr := os.ReadFile(filepath.Join(dir, "assets", "articles", "article-1.bin"))
	require.NoError(t, rerr)
	require.Equal(t, EncodeArticle(a1), blob1)

	_, statErr := os.Stat(filepath.Join(dir, "res", "xml", "languages.xml"))
	require.NoError(t, statErr)
}
