// ===========================================================================
//
// File Name:  langregistry.go
//
// ==========================================================================

package pdb

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// langEntry is one parsed <lingvo kodo="...">name</lingvo> pair together
// with the trie being built for it.
type langEntry struct {
	Name string
	Code string
	Trie *trieNode
}

// LangRegistry is the language registry (C5): the list of recognized
// languages, sorted by name, each carrying its own trie builder.
type LangRegistry struct {
	entries []*langEntry
	byCode  map[string]*langEntry
}

// lingvojDoc mirrors the shape of cfg/lingvoj.xml closely enough for
// encoding/xml to decode it directly, without a hand-rolled SAX pass (§4.5's
// consumer of the C2 event source).
type lingvojDoc struct {
	XMLName xml.Name    `xml:"lingvoj"`
	Lingvo  []lingvoRow `xml:"lingvo"`
}

type lingvoRow struct {
	Kodo string `xml:"kodo,attr"`
	Name string `xml:",chardata"`
}

// NewLangRegistry parses data (the contents of cfg/lingvoj.xml), sorts the
// resulting languages by orthography-compared name, and allocates an empty
// trie per language (§4.5).
func NewLangRegistry(data []byte) (*LangRegistry, *Error) {
	var doc lingvojDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, wrapError(ParseError, err, "cfg/lingvoj.xml: malformed XML")
	}

	reg := &LangRegistry{byCode: make(map[string]*langEntry)}

	for _, row := range doc.Lingvo {
		if row.Kodo == "" {
			return nil, newError(BadFormat, "cfg/lingvoj.xml: <lingvo> missing kodo attribute")
		}
		reg.entries = append(reg.entries, &langEntry{
			Name: row.Name,
			Code: row.Kodo,
			Trie: newTrieRoot(),
		})
	}

	sort.SliceStable(reg.entries, func(i, j int) bool {
		return orthographyLess(reg.entries[i].Name, reg.entries[j].Name)
	})

	for _, e := range reg.entries {
		reg.byCode[e.Code] = e
	}

	return reg, nil
}

// Trie returns the trie builder for code, or nil if code is unrecognized.
func (r *LangRegistry) Trie(code string) *trieNode {
	if e, ok := r.byCode[code]; ok {
		return e.Trie
	}
	return nil
}

// Name returns the display name for code, or "" if code is unrecognized.
func (r *LangRegistry) Name(code string) string {
	if e, ok := r.byCode[code]; ok {
		return e.Name
	}
	return ""
}

// escapeXMLText writes s to buf escaping the four characters the original
// manifest writer escapes. Unlike the tool it was modeled on, '>' is
// escaped to the correct "&gt;" entity rather than the typo "&glt;" (Open
// Question d, resolved).
func escapeXMLText(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
}

// SaveLanguageList writes res/xml/languages.xml under dir, listing every
// language whose trie is non-empty (§4.5).
func (r *LangRegistry) SaveLanguageList(dir string) *Error {
	outDir := filepath.Join(dir, "res", "xml")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return wrapError(IO, err, "creating %s", outDir)
	}

	var buf bytes.Buffer
	buf.WriteString("<?xml version=\"1.0\"?>\n<languages>\n")

	for _, e := range r.entries {
		if e.Trie.isEmpty() {
			continue
		}
		buf.WriteString("<lang code=\"")
		escapeXMLText(&buf, e.Code)
		buf.WriteString("\">")
		escapeXMLText(&buf, e.Name)
		buf.WriteString("</lang>\n")
	}

	buf.WriteString("</languages>\n")

	path := filepath.Join(outDir, "languages.xml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return wrapError(IO, err, "writing %s", path)
	}
	return nil
}

// SaveIndices writes assets/indices/index-<code>.bin for every language
// whose trie is non-empty. Unlike the tool it is modeled on, a write
// failure partway through does not silently stop the loop while leaving
// ret==TRUE: the first write error is returned immediately and the
// remaining languages are not written (Open Question b, resolved).
func (r *LangRegistry) SaveIndices(dir string) *Error {
	outDir := filepath.Join(dir, "assets", "indices")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return wrapError(IO, err, "creating %s", outDir)
	}

	for _, e := range r.entries {
		if e.Trie.isEmpty() {
			continue
		}

		data := e.Trie.compress()
		path := filepath.Join(outDir, fmt.Sprintf("index-%s.bin", e.Code))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return wrapError(IO, err, "writing %s", path)
		}
	}

	return nil
}

// Save writes both the manifest and the per-language index files (§4.5).
func (r *LangRegistry) Save(dir string) *Error {
	if err := r.SaveLanguageList(dir); err != nil {
		return err
	}
	return r.SaveIndices(dir)
}

// isEmpty reports whether a trie node has no entries anywhere in its
// subtree, i.e. the corresponding language indexed zero words.
func (n *trieNode) isEmpty() bool {
	if len(n.Articles) > 0 {
		return false
	}
	for _, c := range n.Children {
		if !c.isEmpty() {
			return false
		}
	}
	return true
}
