package dom

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// NodeType distinguishes element nodes from text nodes.
type NodeType uint8

const (
	ElementNode NodeType = iota
	TextNode
)

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Attrs is a convenience attribute set for building elements. It is applied
// in key order so the rendered output is stable.
type Attrs map[string]string

// Listener handles an event delivered to a node.
type Listener func(ctx context.Context, ev *Event)

var lastID atomic.Uint64

func nextID() string {
	return fmt.Sprintf("n%d", lastID.Add(1))
}

// Node is an element or text node.
type Node struct {
	id   string
	typ  NodeType
	tag  string
	text string

	attrs    []Attr
	parent   *Node
	children []*Node

	value            string
	selStart, selEnd int
	listeners        map[string][]Listener
}

// NewElement returns a detached element with the given tag name.
func NewElement(tag string) *Node {
	return &Node{id: nextID(), typ: ElementNode, tag: strings.ToLower(tag)}
}

// NewText returns a detached text node.
func NewText(text string) *Node {
	return &Node{id: nextID(), typ: TextNode, text: text}
}

// ID returns the node's process-unique identifier.
func (n *Node) ID() string { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the element tag name, or "" for a text node.
func (n *Node) Tag() string { return n.tag }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.text }

// Parent returns the parent node, or nil for a detached node.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// SetAttr sets or replaces an attribute. For input elements the "value"
// attribute also initializes the live value.
func (n *Node) SetAttr(key, val string) {
	key = strings.ToLower(key)
	if n.tag == "input" && key == "value" {
		n.value = val
	}
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Val = val
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Key: key, Val: val})
}

// SetAttrs applies every attribute of attrs in key order.
func (n *Node) SetAttrs(attrs Attrs) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.SetAttr(k, attrs[k])
	}
}

// Attr returns the value of an attribute.
func (n *Node) Attr(key string) (string, bool) {
	key = strings.ToLower(key)
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Attrs returns a copy of the element's attributes in insertion order.
func (n *Node) Attrs() []Attr {
	out := make([]Attr, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// AppendChild appends child, detaching it from any previous parent first.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// RemoveChildren detaches every child. A select loses its selection.
func (n *Node) RemoveChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	if n.tag == "select" {
		n.value = ""
	}
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.text
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Walk visits n and its descendants depth-first, stopping when fn returns
// false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindByID returns the node with the given ID in n's subtree.
func (n *Node) FindByID(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c.id == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Named returns the first descendant element whose name attribute matches,
// like form.elements[name] in a browser.
func (n *Node) Named(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if c == n || c.typ != ElementNode {
			return true
		}
		if v, ok := c.Attr("name"); ok && v == name {
			found = c
			return false
		}
		return true
	})
	return found
}
