// ===========================================================================
//
// File Name:  compiler.go
//
// ==========================================================================

package pdb

import (
	"bytes"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Article is an ordered collection of sections plus a title, assigned a
// 0-based index once all articles have been parsed (§3).
type Article struct {
	Title    SpannableString
	Sections []*Section
	Index    int
	filename string
}

// Section is one titled unit of an article, 0-based within it (§3).
type Section struct {
	Title SpannableString
	Body  SpannableString
	Index int
}

// skipSubtree lists elements whose entire subtree contributes nothing to
// the compiled text (§4.7.3).
var skipSubtree = map[string]bool{
	"fnt": true,
	"adm": true,
	"bld": true,
}

// refIcons maps a ref/refgrp "tip" attribute to its literal icon glyph
// (§4.7.4). An absent key means "no icon" (e.g. tip="lst").
var refIcons = map[string]string{
	"vid":    "→",
	"hom":    "→",
	"dif":    "=",
	"sin":    "⇒",
	"ant":    "⇝",
	"super":  "↗",
	"sub":    "↘",
	"prt":    "↘",
	"malprt": "↗",
	"ekz":    "●",
}

// iconSuppressedIn lists parent elements whose context already conveys a
// reference's meaning, so the icon is dropped (§4.7.4).
var iconSuppressedIn = map[string]bool{
	"dif": true,
	"rim": true,
	"ekz": true,
	"klr": true,
}

// Compiler walks article document trees into Articles, accumulating marks
// and deferred links for the link resolver (C8).
type Compiler struct {
	Lang  *LangRegistry
	Marks map[string]Mark
	Links []Link

	Articles []*Article

	wordRoot  string
	transBags map[string]*SpannableString
	transOrd  []string // language codes in first-seen order, for stable iteration before final sort
	warnings  int
}

// NewCompiler returns a Compiler bound to a language registry (the target
// of index entries discovered while walking translations; headwords are not
// added to any trie).
func NewCompiler(lang *LangRegistry) *Compiler {
	return &Compiler{
		Lang:  lang,
		Marks: make(map[string]Mark),
	}
}

// frame is the explicit work-stack entry sum type the article compiler
// walks instead of recursing on the host call stack (§4.7.1).
type frame interface{ isFrame() }

type nodeFrame struct {
	node      *Node
	parent    *Node
	insideKap bool
}

type closeSpanFrame struct{ idx int }

type addParagraphFrame struct{}

type closingCharFrame struct{ c byte }

func (nodeFrame) isFrame()        {}
func (closeSpanFrame) isFrame()   {}
func (addParagraphFrame) isFrame() {}
func (closingCharFrame) isFrame() {}

// ssWalker holds the state threaded through one explicit-stack walk: the
// spannable string under construction, the deferred-paragraph flag, and
// whatever this article/section needs to register marks and links.
type ssWalker struct {
	c         *Compiler
	ss        *SpannableString
	stack     []frame
	paragraph bool
	article   int
	section   int
}

func (w *ssWalker) push(f frame) { w.stack = append(w.stack, f) }

func (w *ssWalker) pop() (frame, bool) {
	if len(w.stack) == 0 {
		return nil, false
	}
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	return f, true
}

// pushChildren pushes node's children in reverse order so the first child
// is popped (and thus processed) first.
func (w *ssWalker) pushChildren(node *Node, insideKap bool) {
	for i := len(node.Children) - 1; i >= 0; i-- {
		w.push(nodeFrame{node: node.Children[i], parent: node, insideKap: insideKap})
	}
}

// emitText normalizes and appends raw text, honoring the deferred
// paragraph-break flag and collapsing whitespace (§4.7.2).
func (w *ssWalker) emitText(raw []byte) {
	s := normalizeNFC(string(raw))
	text := normalizeWhitespace(s)
	if text == "" {
		return
	}
	// whitespace at either edge of the chunk still stands for one space
	if strings.IndexByte(" \t\n\r", s[0]) >= 0 {
		text = " " + text
	}
	if strings.IndexByte(" \t\n\r", s[len(s)-1]) >= 0 {
		text += " "
	}

	if w.paragraph {
		if len(w.ss.Text) > 0 {
			w.ss.AppendString("\n\n")
		}
		w.paragraph = false
	}

	if len(w.ss.Text) == 0 {
		text = strings.TrimPrefix(text, " ")
	} else {
		last := w.ss.Text[len(w.ss.Text)-1]
		if (last == ' ' || last == '\n') && text[0] == ' ' {
			text = text[1:]
		}
	}

	w.ss.AppendString(text)
}

// normalizeWhitespace collapses runs of ASCII whitespace to a single space
// and trims leading and trailing whitespace (§4.7.2).
func normalizeWhitespace(s string) string {
	var b strings.Builder
	prevSpace := true // suppress leading whitespace
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
			continue
		}
		b.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// siblingOrdinal returns the 0-based position of node among its same-named
// siblings under parent, or ok=false if node is the only sibling of that
// name (§4.7.3's numbering-suppression rule).
func siblingOrdinal(parent *Node, node *Node, name string) (int, bool) {
	before, total := 0, 0
	found := false
	for _, c := range parent.Children {
		if c.Kind != ElementNode || c.Name != name {
			continue
		}
		if c == node {
			found = true
		} else if !found {
			before++
		}
		total++
	}
	if total <= 1 {
		return 0, false
	}
	return before, true
}

// iconSuppressedByParent reports whether a ref/refgrp's icon should be
// dropped because its immediate parent context already conveys the
// reference's meaning (§4.7.4).
func iconSuppressedByParent(parent *Node) bool {
	return parent != nil && iconSuppressedIn[parent.Name]
}

func upperLetterOrdinal(i int) string { return string(rune('A'+i)) + ". " }
func numericOrdinal(i int) string     { return strconv.Itoa(i+1) + ". " }
func lowerParenOrdinal(i int) string  { return string(rune('a'+i)) + ") " }

// compileSpannable walks root's subtree, producing a SpannableString plus
// any marks/links discovered, using the explicit-stack driver of §4.7.1.
func (c *Compiler) compileSpannable(root *Node, article, section int) *SpannableString {
	w := &ssWalker{c: c, ss: &SpannableString{}, article: article, section: section}
	w.push(nodeFrame{node: root})

	for {
		f, ok := w.pop()
		if !ok {
			break
		}

		switch fr := f.(type) {
		case closeSpanFrame:
			w.ss.CloseSpan(fr.idx)

		case addParagraphFrame:
			w.paragraph = true

		case closingCharFrame:
			w.ss.AppendByte(fr.c)

		case nodeFrame:
			w.visit(fr)
		}
	}

	return w.ss
}

func (w *ssWalker) visit(fr nodeFrame) {
	n := fr.node

	if n.Kind == TextNode {
		w.emitText(n.Text)
		return
	}

	if mrk, ok := n.Attr("mrk"); ok {
		w.c.Marks[mrk] = Mark{Name: mrk, Article: w.article, Section: w.section}
	}

	switch n.Name {
	case "tld":
		word := w.c.wordRoot
		if lit, ok := n.Attr("lit"); ok && len(word) > 0 && len(lit) > 0 {
			word = lit + word[1:]
		}
		w.emitText([]byte(word))
		return

	case "fnt", "adm", "bld":
		return

	case "trd", "trdgrp":
		return // collected by the separate translation pass, §4.7.5

	case "kap":
		if !fr.insideKap {
			return
		}
		w.pushChildren(n, true)
		return

	case "ekz":
		idx := w.ss.OpenSpan(SpanItalic, 0, 0)
		w.push(closeSpanFrame{idx})
		w.pushChildren(n, fr.insideKap)
		return

	case "ofc":
		idx := w.ss.OpenSpan(SpanSuperscript, 0, 0)
		w.push(closeSpanFrame{idx})
		w.pushChildren(n, fr.insideKap)
		return

	case "em":
		idx := w.ss.OpenSpan(SpanBold, 0, 0)
		w.push(closeSpanFrame{idx})
		w.pushChildren(n, fr.insideKap)
		return

	case "rim":
		w.paragraph = true
		boldIdx := w.ss.OpenSpan(SpanBold, 0, 0)
		w.emitText([]byte("Rim. "))
		w.ss.CloseSpan(boldIdx)

		noteIdx := w.ss.OpenSpan(SpanNote, 0, 0)
		w.push(addParagraphFrame{}) // queued: paragraph break after the note
		w.push(closeSpanFrame{noteIdx})
		w.pushChildren(n, fr.insideKap)
		return

	case "aut":
		w.ss.AppendByte('[')
		w.push(closingCharFrame{']'})
		w.pushChildren(n, fr.insideKap)
		return

	case "subdrv":
		w.paragraph = true
		if fr.parent != nil {
			if ord, ok := siblingOrdinal(fr.parent, n, "subdrv"); ok {
				w.emitText([]byte(upperLetterOrdinal(ord)))
			}
		}
		w.pushChildren(n, fr.insideKap)
		return

	case "snc":
		w.paragraph = true
		if fr.parent != nil {
			if ord, ok := siblingOrdinal(fr.parent, n, "snc"); ok {
				w.emitText([]byte(numericOrdinal(ord)))
			}
		}
		w.pushChildren(n, fr.insideKap)
		return

	case "subsnc":
		w.paragraph = true
		if fr.parent != nil {
			if ord, ok := siblingOrdinal(fr.parent, n, "subsnc"); ok {
				w.emitText([]byte(lowerParenOrdinal(ord)))
			}
		}
		w.pushChildren(n, fr.insideKap)
		return

	case "ref":
		cel, ok := n.Attr("cel")
		if !ok {
			return // a ref without cel is skipped with its contents; no error is reported
		}
		tip, _ := n.Attr("tip")
		icon := refIcons[tip]
		if icon != "" && !iconSuppressedByParent(fr.parent) {
			w.emitText([]byte(icon))
		}
		idx := w.ss.OpenSpan(SpanReference, 0, 0)
		w.push(closeSpanFrame{idx})
		w.c.Links = append(w.c.Links, Link{
			SS:      w.ss,
			SpanIdx: idx,
			Target:  markReference{Name: cel},
		})
		w.pushChildren(n, fr.insideKap)
		return

	case "refgrp":
		tip, _ := n.Attr("tip")
		icon := refIcons[tip]
		if icon != "" && !iconSuppressedByParent(fr.parent) {
			w.emitText([]byte(icon))
		}
		w.pushChildren(n, fr.insideKap)
		return

	default:
		w.pushChildren(n, fr.insideKap)
	}
}


// compileHeadword builds a headword's display string per §4.7.6:
// concatenated child text plus tld expansions, trimmed of a trailing comma
// and whitespace, with a leading dash kept in the display form but
// stripped from the returned indexTerm. CompileArticle uses only the
// display string; no trie entry is made for the headword. Variant <kap>s
// inside <var> only have their marks registered.
func (c *Compiler) compileHeadword(kap *Node, article, section int) (display, indexTerm string, err *Error) {
	mrk, hasMrk := kap.Attr("mrk")
	if !hasMrk {
		return "", "", newError(BadFormat, "headword found with no containing mrk")
	}
	c.Marks[mrk] = Mark{Name: mrk, Article: article, Section: section}

	var b strings.Builder
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.Kind == TextNode {
			b.Write(n.Text)
			return
		}
		switch n.Name {
		case "tld":
			b.WriteString(c.wordRoot)
		case "var":
			for _, ch := range n.Children {
				if ch.Kind == ElementNode && ch.Name == "kap" {
					_, _, _ = c.compileHeadword(ch, article, section)
				}
			}
		default:
			for _, ch := range n.Children {
				walk(ch)
			}
		}
	}
	walk(kap)

	display = strings.TrimRight(b.String(), ", \t\n")
	indexTerm = display
	if strings.HasPrefix(indexTerm, "-") {
		indexTerm = indexTerm[1:]
	}
	return display, indexTerm, nil
}

// articleFilenameMark derives the automatic mark name injected for a
// source file: the filename with its extension stripped (§3).
func articleFilenameMark(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CompileArticle compiles one parsed document into an Article, collecting
// marks, links, translations, and index entries along the way.
func (c *Compiler) CompileArticle(doc *Document, filename string) (*Article, *Error) {
	article := &Article{Index: len(c.Articles), filename: filename}
	c.wordRoot = ""
	c.transBags = make(map[string]*SpannableString)
	c.transOrd = nil

	root := doc.Root
	if root == nil {
		return nil, newError(BadFormat, "%s: empty document", filename)
	}

	kap := root.FirstChildElement("kap")
	if kap == nil {
		return nil, atLocation(newError(BadFormat, "article has no top-level kap"), filename, 0, 0)
	}
	if rad := kap.FirstChildElement("rad"); rad != nil {
		var buf bytes.Buffer
		rad.AppendAllText(&buf, nil)
		c.wordRoot = buf.String()
	}

	display, _, herr := c.compileHeadword(kap, article.Index, 0)
	if herr != nil {
		return nil, atLocation(herr, filename, 0, 0)
	}
	article.Title.AppendString(display)

	for _, child := range root.Children {
		if child.Kind != ElementNode {
			continue
		}

		switch child.Name {
		case "kap":
			continue

		case "drv":
			sectionIdx := len(article.Sections)
			section := &Section{Index: sectionIdx, Title: article.Title}
			section.Body = *c.compileSpannable(child, article.Index, sectionIdx)
			article.Sections = append(article.Sections, section)
			c.collectTranslations(root, child, article.Index, sectionIdx, false, "", "")

		case "subart":
			subs, serr := c.compileSubart(child, root, article)
			if serr != nil {
				return nil, serr
			}
			article.Sections = append(article.Sections, subs...)
		}
	}

	if len(article.Sections) == 0 {
		article.Sections = append(article.Sections, &Section{Index: 0, Title: article.Title})
	}

	c.flushTranslations(article)

	markName := articleFilenameMark(filename)
	if _, exists := c.Marks[markName]; !exists {
		c.Marks[markName] = Mark{Name: markName, Article: article.Index, Section: 0}
	}

	c.Articles = append(c.Articles, article)
	return article, nil
}

// compileSubart turns one <subart> into one or more sections, titled with
// its Roman-numeral sibling ordinal (§4.7.7).
func (c *Compiler) compileSubart(node, parent *Node, article *Article) ([]*Section, *Error) {
	ordinal := 0
	if ord, ok := siblingOrdinal(parent, node, "subart"); ok {
		ordinal = ord
	}
	title := romanNumeral(ordinal+1) + "."

	hasDrv := false
	for _, ch := range node.Children {
		if ch.Kind == ElementNode && ch.Name == "drv" {
			hasDrv = true
			break
		}
	}

	var sections []*Section

	if !hasDrv {
		idx := len(article.Sections)
		s := &Section{Index: idx}
		s.Title.AppendString(title)
		s.Body = *c.compileSpannable(node, article.Index, idx)
		sections = append(sections, s)
		c.collectTranslations(parent, node, article.Index, idx, false, "", "")
		return sections, nil
	}

	for _, ch := range node.Children {
		if ch.Kind != ElementNode {
			continue
		}
		if ch.Name != "dif" && ch.Name != "drv" {
			continue
		}

		idx := len(article.Sections) + len(sections)
		s := &Section{Index: idx}
		s.Title.AppendString(title)
		s.Body = *c.compileSpannable(ch, article.Index, idx)
		sections = append(sections, s)

		if ch.Name == "drv" {
			c.collectTranslations(node, ch, article.Index, idx, false, "", "")
		}
	}

	return sections, nil
}

// collectTranslations is the secondary, non-stack-driven pass that finds
// trd/trdgrp elements skipped by compileSpannable and accumulates their
// contribution into the per-language scratch bags (§4.7.5). senseLabel
// tracks the nearest enclosing snc/subsnc ordinal for the generated
// reference headword; groupLang carries a trdgrp's shared lng down to its
// bare trd children.
func (c *Compiler) collectTranslations(parent, n *Node, articleIdx, sectionIdx int, insideEkz bool, senseLabel, groupLang string) {
	if n.Kind == TextNode {
		return
	}

	switch n.Name {
	case "ekz":
		insideEkz = true

	case "snc":
		if ord, ok := siblingOrdinal(parent, n, "snc"); ok {
			senseLabel = strconv.Itoa(ord + 1)
		}

	case "subsnc":
		if ord, ok := siblingOrdinal(parent, n, "subsnc"); ok {
			senseLabel += "." + string(rune('a'+ord))
		}

	case "trdgrp":
		lng, _ := n.Attr("lng")
		if !insideEkz {
			for _, ch := range n.Children {
				if ch.Kind == ElementNode && ch.Name == "trd" {
					c.handleTranslation(ch, articleIdx, sectionIdx, senseLabel, lng)
				}
			}
		}
		return

	case "trd":
		if !insideEkz {
			c.handleTranslation(n, articleIdx, sectionIdx, senseLabel, groupLang)
		}
		return
	}

	for _, ch := range n.Children {
		c.collectTranslations(n, ch, articleIdx, sectionIdx, insideEkz, senseLabel, groupLang)
	}
}

// transBag returns (creating if needed) the scratch spannable string
// accumulating translations for lang, in first-seen order.
func (c *Compiler) transBag(lang string) *SpannableString {
	if b, ok := c.transBags[lang]; ok {
		return b
	}
	b := &SpannableString{}
	c.transBags[lang] = b
	c.transOrd = append(c.transOrd, lang)
	return b
}

// handleTranslation emits one translation entry into its language's
// scratch bag and contributes an index entry to that language's trie
// (§4.7.5). Empty (whitespace-only) translations are silently dropped.
func (c *Compiler) handleTranslation(n *Node, articleIdx, sectionIdx int, senseLabel, groupLang string) {
	lng := groupLang
	if v, ok := n.Attr("lng"); ok {
		lng = v
	}
	if lng == "" {
		return
	}

	var textBuf bytes.Buffer
	n.AppendAllText(&textBuf, map[string]bool{"ofc": true, "klr": true})
	text := normalizeWhitespace(textBuf.String())
	if text == "" {
		return
	}

	bag := c.transBag(lng)

	refPrefix := "~"
	if senseLabel != "" {
		refPrefix += " " + senseLabel
	}

	refIdx := bag.OpenSpan(SpanReference, 0, 0)
	bag.AppendString(refPrefix)
	bag.CloseSpan(refIdx)
	c.Links = append(c.Links, Link{
		SS:      bag,
		SpanIdx: refIdx,
		Target:  directReference{Article: articleIdx, Section: sectionIdx},
	})

	bag.AppendString(": ")
	bag.AppendString(text)
	bag.AppendString("; ")

	indexTerm := text
	if ind := n.FirstChildElement("ind"); ind != nil {
		var b bytes.Buffer
		ind.AppendAllText(&b, nil)
		indexTerm = normalizeWhitespace(b.String())
	}

	lower := strings.ToLower(indexTerm)
	display := ""
	if lower != indexTerm {
		display = indexTerm
	}

	if trie := c.Lang.Trie(lng); trie != nil {
		trie.addWord(lower, display, articleIdx, sectionIdx)
	}
}

// flushTranslations appends one trailing section per language with
// accumulated translations, sorted by the orthography-aware language name
// (§4.7.5).
func (c *Compiler) flushTranslations(article *Article) {
	type langSection struct {
		name string
		ss   *SpannableString
	}

	sections := make([]langSection, 0, len(c.transOrd))
	for _, code := range c.transOrd {
		sections = append(sections, langSection{name: c.Lang.Name(code), ss: c.transBags[code]})
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return orthographyLess(sections[i].name, sections[j].name)
	})

	for _, ls := range sections {
		ls.ss.Text = bytes.TrimSuffix(ls.ss.Text, []byte("; "))

		section := &Section{Index: len(article.Sections)}
		section.Title.AppendString(ls.name)
		section.Body = *ls.ss
		article.Sections = append(article.Sections, section)
	}
}
