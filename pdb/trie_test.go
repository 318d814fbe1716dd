package pdb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrieAddWordAndCompressRoundTripsOffsets(t *testing.T) {
	root := newTrieRoot()
	root.addWord("kato", "", 1, 0)
	root.addWord("hundo", "", 2, 0)

	buf := root.compress()
	require.NotEmpty(t, buf)

	offset := binary.LittleEndian.Uint32(buf[0:4])
	length := offset &^ trieHasEntries
	require.Equal(t, uint32(len(buf)), length, "root's recorded subtree length must match the encoded byte count")
	require.Equal(t, uint32(0), offset&trieHasEntries, "root itself terminates no word")
}

func TestTrieChildrenInsertedInOrthographicOrder(t *testing.T) {
	root := newTrieRoot()
	root.addWord("zorgo", "", 1, 0)
	root.addWord("abio", "", 2, 0)
	root.addWord("ĉefo", "", 3, 0)

	require.Len(t, root.Children, 3)
	require.Equal(t, 'a', root.Children[0].Letter)
	require.Equal(t, 'ĉ', root.Children[1].Letter)
	require.Equal(t, 'z', root.Children[2].Letter)
}

func TestTrieArticleRecordBitPacking(t *testing.T) {
	root := newTrieRoot()
	root.addWord("a", "", 5, 7)
	root.addWord("a", "Display", 9, 2)

	node := root.Children[0]
	require.Len(t, node.Articles, 2)

	buf := node.compressInto(nil)

	// offset field, then the letter 'a' (1 byte)
	pos := 5

	first := binary.LittleEndian.Uint16(buf[pos:])
	require.NotZero(t, first&trieArticleHasNext, "first of two records must carry has-next")
	require.Zero(t, first&trieArticleHasDisplay)
	pos += 2
	require.Equal(t, byte(7), buf[pos]) // mark number
	pos++

	second := binary.LittleEndian.Uint16(buf[pos:])
	require.Zero(t, second&trieArticleHasNext, "last record must not carry has-next")
	require.NotZero(t, second&trieArticleHasDisplay)
	pos += 2
	require.Equal(t, byte(2), buf[pos])
	pos++
	displayLen := int(buf[pos])
	pos++
	require.Equal(t, "Display", string(buf[pos:pos+displayLen]))
}

func TestTrieIsEmpty(t *testing.T) {
	root := newTrieRoot()
	require.True(t, root.isEmpty())

	root.addWord("vorto", "", 0, 0)
	require.False(t, root.isEmpty())
}
