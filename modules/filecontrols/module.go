// Package filecontrols provides the built-in controls of the file panel: an
// editor, a file list and the buttons operating on the selected file.
package filecontrols

import (
	"github.com/vk/filepanel/internal/registry"
)

// Control names, in mount order.
const (
	EditorWindow = "editorWindow"
	SaveButton   = "saveButton"
	Delimiter    = "delimiter"
	FileList     = "fileList"
	NewFileForm  = "newFileForm"
	DeleteButton = "deleteButton"
)

// NewFileInput is the name of the new file form's text input.
const NewFileInput = "new-filename"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register adds the built-in controls to r in display order.
func (m *Module) Register(r *registry.Registry) {
	r.MustRegister(EditorWindow, buildEditorWindow)
	r.MustRegister(SaveButton, buildSaveButton)
	r.MustRegister(Delimiter, buildDelimiter)
	r.MustRegister(FileList, buildFileList)
	r.MustRegister(NewFileForm, buildNewFileForm)
	r.MustRegister(DeleteButton, buildDeleteButton)
}
