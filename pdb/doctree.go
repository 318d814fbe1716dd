// ===========================================================================
//
// File Name:  doctree.go
//
// ==========================================================================

package pdb

import "bytes"

// nodeArenaSize is the fixed slab size document tree nodes are carved from
// (§4.3). Slabs are never freed individually; the whole arena list is
// dropped together when a Document goes out of scope.
const nodeArenaSize = 2048

// NodeKind distinguishes the two document tree node shapes.
type NodeKind int

const (
	ElementNode NodeKind = iota
	TextNode
)

// Node is either an element (Name + parallel attribute key/value slices +
// Children) or a text run (Text). Nodes are never individually freed; a
// Document bulk-releases them by dropping its arena list.
type Node struct {
	Kind     NodeKind
	Name     string
	AttrKeys []string
	AttrVals []string
	Children []*Node
	Text     []byte
}

// Attr looks up an attribute by name, returning ok=false if absent.
func (n *Node) Attr(name string) (string, bool) {
	for i, k := range n.AttrKeys {
		if k == name {
			return n.AttrVals[i], true
		}
	}
	return "", false
}

// FirstChildElement returns the first child element node named name, or nil.
func (n *Node) FirstChildElement(name string) *Node {
	for _, c := range n.Children {
		if c.Kind == ElementNode && c.Name == name {
			return c
		}
	}
	return nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.Children)
}

// AppendAllText writes every text descendant's bytes into buf, depth-first,
// skipping the subtrees rooted at any element whose name is in exclude
// (§4.3's "optionally excluding a set of tag names").
func (n *Node) AppendAllText(buf *bytes.Buffer, exclude map[string]bool) {
	if n.Kind == TextNode {
		buf.Write(n.Text)
		return
	}
	if exclude != nil && exclude[n.Name] {
		return
	}
	for _, c := range n.Children {
		c.AppendAllText(buf, exclude)
	}
}

// arena is one fixed-size slab nodes are carved from. Go's garbage collector
// ultimately reclaims the backing array; the arena's role is purely to
// batch allocation and make the "free the whole document at once" intent
// explicit rather than relying on individual node lifetimes.
type arena struct {
	nodes []Node
	next  int
}

func newArena() *arena {
	return &arena{nodes: make([]Node, nodeArenaSize/64)}
}

func (a *arena) alloc() *Node {
	if a.next >= len(a.nodes) {
		return nil
	}
	n := &a.nodes[a.next]
	a.next++
	return n
}

// Document owns every Node reachable from Root. Arenas are appended as
// needed; the document is released as a group by simply dropping the
// Document value, never by walking and freeing individual nodes.
type Document struct {
	Root    *Node
	arenas  []*arena
	current *arena
}

// NewDocument starts a new arena list and returns an empty Document.
func NewDocument() *Document {
	d := &Document{}
	d.current = newArena()
	d.arenas = append(d.arenas, d.current)
	return d
}

// newNode allocates a zero-value Node from the current arena, starting a
// fresh arena if the current one is exhausted.
func (d *Document) newNode() *Node {
	n := d.current.alloc()
	if n == nil {
		d.current = newArena()
		d.arenas = append(d.arenas, d.current)
		n = d.current.alloc()
	}
	return n
}

// NewElement allocates an element node with the given name.
func (d *Document) NewElement(name string) *Node {
	n := d.newNode()
	n.Kind = ElementNode
	n.Name = name
	return n
}

// NewText allocates a text node, merging into the last child of parent if
// that child is itself a text node (§4.3's adjacent-text-merge rule). The
// "fits in the current arena's remaining space" qualifier from the spec is
// satisfied trivially here since text bytes are not arena-backed memory.
// A newly allocated node is not attached to parent; the caller adds it with
// AddChild.
func (d *Document) NewText(parent *Node, text []byte) *Node {
	if len(parent.Children) > 0 {
		last := parent.Children[len(parent.Children)-1]
		if last.Kind == TextNode {
			last.Text = append(last.Text, text...)
			return last
		}
	}
	n := d.newNode()
	n.Kind = TextNode
	n.Text = append([]byte(nil), text...)
	return n
}

// AddChild appends child to parent's child list.
func (d *Document) AddChild(parent, child *Node) {
	parent.Children = append(parent.Children, child)
}

// ParseDocument consumes every event from src and builds the corresponding
// Document (C3), driven by C2. The root element of the source document
// becomes d.Root.
func ParseDocument(src *XMLEventSource) (*Document, *Error) {
	d := NewDocument()
	var stack []*Node

	for {
		ev, err := src.Next()
		if err != nil {
			return nil, err
		}

		switch ev.Kind {
		case EventStartElement:
			n := d.NewElement(ev.Name)
			n.AttrKeys = ev.AttrKeys
			n.AttrVals = ev.AttrVals
			if len(stack) > 0 {
				d.AddChild(stack[len(stack)-1], n)
			} else {
				d.Root = n
			}
			stack = append(stack, n)

		case EventEndElement:
			if len(stack) == 0 {
				return nil, newError(ParseError, "unmatched end element %q", ev.Name)
			}
			stack = stack[:len(stack)-1]

		case EventCharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				n := d.NewText(parent, ev.Text)
				if k := len(parent.Children); k == 0 || parent.Children[k-1] != n {
					d.AddChild(parent, n)
				}
			}

		case EventEOF:
			if d.Root == nil {
				return nil, newError(BadFormat, "empty document")
			}
			return d, nil
		}
	}
}
