// Package addimage adds a button inserting an image tag, pointing at a URL
// the user is prompted for, at the editor's selection.
package addimage

import (
	"context"
	"fmt"

	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/registry"
	"github.com/vk/filepanel/modules/filecontrols"
)

// AddImageByURL is the control name.
const AddImageByURL = "addImageByUrl"

// PromptMessage is shown when asking for the image URL.
const PromptMessage = "Insert here the URL of the image:"

// Module implements the registry.Module interface for this package. It
// relies on the filecontrols editor and file list.
type Module struct{}

// Register adds the control to r.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(AddImageByURL, build)
}

func build(c registry.Capabilities) (*dom.Node, error) {
	button := c.BuildNode("button", nil, "Add Image By URL")
	button.AddEventListener("click", func(_ context.Context, _ *dom.Event) {
		if c.Control(filecontrols.FileList).Value() == "" {
			c.Logger().Info("No file selected.")
			return
		}
		url, ok := c.Prompt(PromptMessage)
		if !ok || url == "" {
			c.Logger().Info("No image URL given.")
			return
		}
		insertAtSelection(c.Control(filecontrols.EditorWindow), fmt.Sprintf(`<img src="%s">`, url))
	})
	return button, nil
}

// insertAtSelection replaces the selected text of editor with text and
// places the caret after it.
func insertAtSelection(editor *dom.Node, text string) {
	value := []rune(editor.Value())
	start, end := editor.SelectionRange()
	out := string(value[:start]) + text + string(value[end:])
	editor.SetValue(out)
	caret := start + len([]rune(text))
	editor.SetSelectionRange(caret, caret)
}
