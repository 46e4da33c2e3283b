package dom

import (
	"bytes"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// NodeIDAttr is the attribute carrying a node's ID in rendered HTML.
const NodeIDAttr = "data-node"

// Render writes the HTML serialization of n to w.
func Render(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n))
}

// RenderString returns the HTML serialization of n.
func RenderString(n *Node) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toHTML(n *Node) *html.Node {
	if n.typ == TextNode {
		return &html.Node{Type: html.TextNode, Data: n.text}
	}

	out := &html.Node{
		Type:     html.ElementNode,
		Data:     n.tag,
		DataAtom: atom.Lookup([]byte(n.tag)),
	}
	out.Attr = append(out.Attr, html.Attribute{Key: NodeIDAttr, Val: n.id})
	for _, a := range n.attrs {
		if n.tag == "input" && a.Key == "value" {
			continue
		}
		out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}

	switch n.tag {
	case "textarea":
		out.Attr = append(out.Attr,
			html.Attribute{Key: "data-selection-start", Val: strconv.Itoa(UTF16Offset(n.value, n.selStart))},
			html.Attribute{Key: "data-selection-end", Val: strconv.Itoa(UTF16Offset(n.value, n.selEnd))},
		)
		if n.value != "" {
			out.AppendChild(&html.Node{Type: html.TextNode, Data: n.value})
		}
		return out
	case "input":
		out.Attr = append(out.Attr, html.Attribute{Key: "value", Val: n.value})
	case "option":
		if p := n.parent; p != nil && p.tag == "select" && p.value != "" && p.value == n.OptionValue() {
			out.Attr = append(out.Attr, html.Attribute{Key: "selected"})
		}
	}

	for _, c := range n.children {
		out.AppendChild(toHTML(c))
	}
	return out
}
