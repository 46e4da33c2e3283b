package dom

import "unicode/utf16"

// Value returns the live value of a form control. For a select it is the
// value of the selected option, or "" when nothing is selected.
func (n *Node) Value() string {
	return n.value
}

// SetValue sets the live value of a form control. Setting a select's value
// selects the first option with that value; an unknown value clears the
// selection. For text controls the selection collapses to the end.
func (n *Node) SetValue(v string) {
	switch n.tag {
	case "select":
		n.value = ""
		for _, opt := range n.options() {
			if opt.OptionValue() == v {
				n.value = v
				return
			}
		}
	default:
		n.value = v
		end := len([]rune(v))
		n.selStart, n.selEnd = end, end
	}
}

// SelectionRange returns the selection of a text control as rune offsets.
func (n *Node) SelectionRange() (start, end int) {
	return n.selStart, n.selEnd
}

// SetSelectionRange sets the selection, clamped to the current value.
func (n *Node) SetSelectionRange(start, end int) {
	size := len([]rune(n.value))
	clamp := func(i int) int {
		if i < 0 {
			return 0
		}
		if i > size {
			return size
		}
		return i
	}
	start, end = clamp(start), clamp(end)
	if start > end {
		start = end
	}
	n.selStart, n.selEnd = start, end
}

// OptionValue returns the value an option contributes to its select: its
// value attribute when present, otherwise its text.
func (n *Node) OptionValue() string {
	if v, ok := n.Attr("value"); ok {
		return v
	}
	return n.TextContent()
}

// Options returns the option elements of a select, in order.
func (n *Node) Options() []*Node {
	return n.options()
}

func (n *Node) options() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.tag == "option" {
			out = append(out, c)
		}
	}
	return out
}

// RuneOffset converts an offset into s counted in UTF-16 code units, as
// browsers report text selections, into a rune offset. An offset inside a
// surrogate pair rounds down to the start of that rune.
func RuneOffset(s string, units int) int {
	var n, u int
	for _, r := range s {
		w := utf16.RuneLen(r)
		if u+w > units {
			break
		}
		u += w
		n++
	}
	return n
}

// UTF16Offset converts a rune offset into s into UTF-16 code units.
func UTF16Offset(s string, runes int) int {
	var n, u int
	for _, r := range s {
		if n == runes {
			break
		}
		u += utf16.RuneLen(r)
		n++
	}
	return u
}
