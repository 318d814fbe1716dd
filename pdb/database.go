// ===========================================================================
//
// File Name:  database.go
//
// ==========================================================================

package pdb

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// dbMagic is the 4-byte file signature at the start of a single-file
// database (§4.9).
const dbMagic = "PRDB"

// languageEntrySize is the fixed size of one row of the single-file
// database's language table: 3 bytes of code padded to 4, plus a 4-byte
// offset (§4.9).
const languageEntrySize = 4 + 3 + 1

// langIndex is one resolved language entry ready for emission: its code,
// display name, and encoded trie bytes.
type langIndex struct {
	Code string
	Name string
	Trie []byte
}

// collectLangIndices gathers every non-empty language trie from reg,
// sorted ascending by code as required by §4.9's language table.
func collectLangIndices(reg *LangRegistry) []langIndex {
	var out []langIndex
	for _, e := range reg.entries {
		if e.Trie.isEmpty() {
			continue
		}
		out = append(out, langIndex{Code: e.Code, Name: e.Name, Trie: e.Trie.compress()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// WriteSingleFile emits the single-file database layout of §4.9 to path.
func WriteSingleFile(path string, articles []*Article, reg *LangRegistry) *Error {
	langs := collectLangIndices(reg)

	var buf []byte
	buf = append(buf, dbMagic...)
	buf = appendUint32(buf, uint32(len(articles)))

	offsetsPos := len(buf)
	buf = append(buf, make([]byte, len(articles)*4)...)

	blobs := make([][]byte, len(articles))
	for i, a := range articles {
		blobs[i] = EncodeArticle(a)
	}

	for i, blob := range blobs {
		binary.LittleEndian.PutUint32(buf[offsetsPos+i*4:], uint32(len(buf)))
		buf = appendUint32(buf, uint32(len(blob)))
		buf = append(buf, blob...)
	}

	buf = appendUint32(buf, uint32(len(langs)))

	langTablePos := len(buf)
	buf = append(buf, make([]byte, len(langs)*languageEntrySize)...)

	for i, l := range langs {
		var code [3]byte
		copy(code[:], l.Code)

		entryPos := langTablePos + i*languageEntrySize
		copy(buf[entryPos:entryPos+3], code[:])
		buf[entryPos+3] = 0
		binary.LittleEndian.PutUint32(buf[entryPos+4:], uint32(len(buf)))

		buf = append(buf, l.Name...)
		buf = append(buf, 0)
		buf = appendUint32(buf, uint32(len(l.Trie)))
		buf = append(buf, l.Trie...)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return wrapError(IO, err, "writing %s", path)
	}
	return nil
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// WriteMultiFile emits the default per-directory output layout of §6:
// one article blob per file, the language manifest, and per-language index
// files (the latter two via LangRegistry.Save).
func WriteMultiFile(dir string, articles []*Article, reg *LangRegistry) *Error {
	articlesDir := filepath.Join(dir, "assets", "articles")
	if err := os.MkdirAll(articlesDir, 0o755); err != nil {
		return wrapError(IO, err, "creating %s", articlesDir)
	}

	for _, a := range articles {
		blob := EncodeArticle(a)
		path := filepath.Join(articlesDir, fmt.Sprintf("article-%d.bin", a.Index))
		if err := os.WriteFile(path, blob, 0o644); err != nil {
			return wrapError(IO, err, "writing %s", path)
		}
	}

	return reg.Save(dir)
}
