package dom

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderString_FormState(t *testing.T) {
	root := NewElement("div")
	editor := NewElement("textarea")
	editor.SetValue("<b>hi</b>")
	sel := NewElement("select")
	opt := NewElement("option")
	opt.AppendChild(NewText("notes.txt"))
	sel.AppendChild(opt)
	sel.SetValue("notes.txt")
	input := NewElement("input")
	input.SetAttr("value", "draft")
	input.SetValue("typed")
	root.AppendChild(editor)
	root.AppendChild(sel)
	root.AppendChild(input)

	out, err := RenderString(root)
	require.NoError(t, err)

	assert.Contains(t, out, fmt.Sprintf(`<textarea data-node="%s" data-selection-start="9" data-selection-end="9">&lt;b&gt;hi&lt;/b&gt;</textarea>`, editor.ID()))
	assert.Contains(t, out, fmt.Sprintf(`<option data-node="%s" selected="">notes.txt</option>`, opt.ID()))
	assert.Contains(t, out, fmt.Sprintf(`<input data-node="%s" value="typed"/>`, input.ID()))
}

func TestRenderString_SelectionInUTF16Units(t *testing.T) {
	editor := NewElement("textarea")
	editor.SetValue("a😀b")
	editor.SetSelectionRange(2, 2)

	out, err := RenderString(editor)
	require.NoError(t, err)
	assert.Contains(t, out, `data-selection-start="3" data-selection-end="3"`)
}
