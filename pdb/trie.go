// ===========================================================================
//
// File Name:  trie.go
//
// ==========================================================================

package pdb

import "encoding/binary"

// trieArticleHasNext marks that another article record follows this one for
// the same trie entry (§4.6.3).
const trieArticleHasNext = 0x8000

// trieArticleHasDisplay marks that a one-byte-length-prefixed display string
// follows the mark-number byte (§4.6.3).
const trieArticleHasDisplay = 0x4000

// trieHasEntries is bit 31 of a node's offset field: set when the node
// itself terminates at least one indexed word.
const trieHasEntries = uint32(1) << 31

// trieArticle is one (article, mark, optional display name) record attached
// to a trie node that completes a word.
type trieArticle struct {
	ArticleNum  int
	MarkNum     int
	DisplayWord string // empty means "same as the indexed word"
}

// trieNode is one letter of the compressed trie being built in memory,
// before encoding (§4.6). The root node's Letter is a placeholder with no
// meaning; the root exists to anchor the top-level children list.
type trieNode struct {
	Letter   rune
	Articles []trieArticle
	Children []*trieNode
}

// newTrieNode allocates an empty node for letter r.
func newTrieNode(r rune) *trieNode {
	return &trieNode{Letter: r}
}

// newTrieRoot creates the trie builder's root. compress writes the root's
// letter like any other node's, but it is a virtual origin exactly as in
// the source tool, which picks '[' (the code point after 'Z') as a
// placeholder that is never searched for.
func newTrieRoot() *trieNode {
	return newTrieNode('[')
}

// addWord inserts word into the trie, creating intermediate nodes as
// needed and keeping each node's children sorted by orthography (§4.6.1).
// display is the empty string when the indexed word and the article's
// display form are identical.
func (root *trieNode) addWord(word, display string, articleNum, markNum int) {
	node := root
	for _, ch := range word {
		node = node.childOrInsert(ch)
	}
	node.Articles = append(node.Articles, trieArticle{
		ArticleNum:  articleNum,
		MarkNum:     markNum,
		DisplayWord: display,
	})
}

// childOrInsert returns the existing child for ch, or inserts a new one at
// the sorted position and returns it.
func (n *trieNode) childOrInsert(ch rune) *trieNode {
	for _, c := range n.Children {
		if c.Letter == ch {
			return c
		}
	}

	child := newTrieNode(ch)
	insertAt := len(n.Children)
	for i, c := range n.Children {
		if orthographyCompare(string(ch), string(c.Letter)) <= 0 {
			insertAt = i
			break
		}
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[insertAt+1:], n.Children[insertAt:])
	n.Children[insertAt] = child
	return child
}

// compress encodes the trie rooted at root into the self-delimiting wire
// format described in §4.6.3: a 32-bit little-endian offset/has-entries
// field, a UTF-8 letter, optional article records, then child subtrees in
// sorted order.
func (root *trieNode) compress() []byte {
	return root.compressInto(nil)
}

func (n *trieNode) compressInto(buf []byte) []byte {
	nodeStart := len(buf)

	// reserve the offset field
	buf = append(buf, 0, 0, 0, 0)

	buf = append(buf, string(n.Letter)...)

	for i, a := range n.Articles {
		articleNum := uint16(a.ArticleNum)
		if i != len(n.Articles)-1 {
			articleNum |= trieArticleHasNext
		}
		if a.DisplayWord != "" {
			articleNum |= trieArticleHasDisplay
		}

		buf = appendUint16(buf, articleNum)
		buf = append(buf, byte(a.MarkNum))

		if a.DisplayWord != "" {
			buf = append(buf, byte(len(a.DisplayWord)))
			buf = append(buf, a.DisplayWord...)
		}
	}

	for _, c := range n.Children {
		buf = c.compressInto(buf)
	}

	offset := uint32(len(buf) - nodeStart)
	if len(n.Articles) > 0 {
		offset |= trieHasEntries
	}
	binary.LittleEndian.PutUint32(buf[nodeStart:nodeStart+4], offset)

	return buf
}

