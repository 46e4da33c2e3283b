package filecontrols

import (
	"context"

	"github.com/vk/filepanel/internal/async"
	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/registry"
)

func buildEditorWindow(c registry.Capabilities) (*dom.Node, error) {
	return c.BuildNode("textarea", dom.Attrs{"cols": "100", "rows": "20", "id": "editor"}), nil
}

// buildSaveButton writes the editor content into the selected file.
func buildSaveButton(c registry.Capabilities) (*dom.Node, error) {
	button := c.BuildNode("button", nil, "Save")
	button.AddEventListener("click", func(ctx context.Context, _ *dom.Event) {
		selected := c.Control(FileList).Value()
		if selected == "" {
			c.Logger().Info("Nothing to save here.")
			return
		}
		content := c.Control(EditorWindow).Value()
		c.Files().WriteOrCreate(ctx, selected, content).Handle(nil, func(err error) {
			c.Report(err, "Saving not successful.")
		})
	})
	return button, nil
}

// buildDelimiter starts a new line of tools.
func buildDelimiter(c registry.Capabilities) (*dom.Node, error) {
	return c.BuildNode("div", nil), nil
}

// buildFileList lists the directory and loads the chosen file into the editor.
func buildFileList(c registry.Capabilities) (*dom.Node, error) {
	list := c.BuildNode("select", dom.Attrs{"size": "10"})
	list.AddEventListener("change", func(ctx context.Context, ev *dom.Event) {
		name := ev.Target.Value()
		c.Files().Read(ctx, name).Handle(func(content string) {
			c.Control(EditorWindow).SetValue(content)
		}, func(err error) {
			c.Report(err, "Loading file failed.")
		})
	})

	c.Files().List(c.Context()).Handle(func(names []string) {
		c.ReplaceOptions(c.Control(FileList), names)
	}, func(err error) {
		c.Report(err, "File list could not be updated.")
	})
	return list, nil
}

// buildNewFileForm creates an empty file under the typed name and refreshes
// the list. A failed create is reported and the list refreshed anyway.
func buildNewFileForm(c registry.Capabilities) (*dom.Node, error) {
	input := c.BuildNode("input", dom.Attrs{"type": "text", "name": NewFileInput})
	form := c.BuildNode("form", dom.Attrs{"style": "display: inline"},
		input,
		c.BuildNode("input", dom.Attrs{"type": "submit", "value": "Create a file"}),
	)

	form.AddEventListener("submit", func(ctx context.Context, ev *dom.Event) {
		ev.PreventDefault()
		created := async.Catch(c.Files().Create(ctx, input.Value()), func(err error) (struct{}, error) {
			c.Report(err, "Saving not successful.")
			return struct{}{}, nil
		})
		async.ThenAsync(created, func(struct{}) *async.Future[[]string] {
			return c.Files().List(ctx)
		}).Handle(func(names []string) {
			c.Control(EditorWindow).SetValue("")
			input.SetValue("")
			c.ReplaceOptions(c.Control(FileList), names)
		}, func(err error) {
			c.Report(err, "File list could not be updated.")
		})
	})
	return form, nil
}

// buildDeleteButton removes the selected file and refreshes the list. A
// failed delete is reported and the list refreshed anyway.
func buildDeleteButton(c registry.Capabilities) (*dom.Node, error) {
	button := c.BuildNode("button", nil, "delete")
	button.AddEventListener("click", func(ctx context.Context, _ *dom.Event) {
		selected := c.Control(FileList).Value()
		if selected == "" {
			return
		}
		removed := async.Catch(c.Files().Remove(ctx, selected), func(err error) (struct{}, error) {
			c.Report(err, "Deleting not successful.")
			return struct{}{}, nil
		})
		async.ThenAsync(removed, func(struct{}) *async.Future[[]string] {
			return c.Files().List(ctx)
		}).Handle(func(names []string) {
			c.Control(EditorWindow).SetValue("")
			c.ReplaceOptions(c.Control(FileList), names)
		}, func(err error) {
			c.Report(err, "File list could not be updated.")
		})
	})
	return button, nil
}
