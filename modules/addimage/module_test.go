package addimage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/filepanel/internal/dom"
	"github.com/vk/filepanel/internal/panel"
	"github.com/vk/filepanel/internal/registry"
	"github.com/vk/filepanel/internal/resource"
	"github.com/vk/filepanel/internal/testutil"
	"github.com/vk/filepanel/modules/filecontrols"
)

type promptResult struct {
	answer string
	ok     bool
}

// runClick builds a panel with the editor showing content, selects a file if
// selected is set, applies the selection and clicks the button. It returns the
// editor value afterwards and the prompts shown.
func runClick(t *testing.T, selected, content string, start, end int, answer promptResult) (string, []string, *testutil.SafeBuffer) {
	t.Helper()
	loop := testutil.StartLoop(t)
	remote := testutil.NewRemote(t, map[string]string{"page.html": content})
	logger, logs := testutil.NewLogger(t)
	client, err := resource.NewClient(remote.URL, loop)
	require.NoError(t, err)

	reg := registry.New()
	reg.Load(&filecontrols.Module{}, &Module{})

	var prompts []string
	prompter := func(msg string) (string, bool) {
		prompts = append(prompts, msg)
		return answer.answer, answer.ok
	}

	var p *panel.Panel
	testutil.Do(t, loop, func() {
		p, err = panel.New(context.Background(), dom.NewElement("div"), client,
			panel.WithRegistry(reg), panel.WithLogger(logger), panel.WithPrompter(prompter))
	})
	require.NoError(t, err)
	testutil.Settle(t, loop)

	var dispatchErr error
	testutil.Do(t, loop, func() {
		if selected != "" {
			p.Control(filecontrols.FileList).SetValue(selected)
		}
		editor := p.Control(filecontrols.EditorWindow)
		editor.SetValue(content)
		editor.SetSelectionRange(start, end)
		_, dispatchErr = p.Dispatch(context.Background(), p.Control(AddImageByURL).ID(), dom.NewEvent("click"))
	})
	require.NoError(t, dispatchErr)
	testutil.Settle(t, loop)

	var got string
	testutil.Do(t, loop, func() { got = p.Control(filecontrols.EditorWindow).Value() })
	return got, prompts, logs
}

func TestAddImage_ReplacesSelection(t *testing.T) {
	got, prompts, _ := runClick(t, "page.html", "before OLD after", 7, 10, promptResult{"http://x/a.png", true})

	assert.Equal(t, `before <img src="http://x/a.png"> after`, got)
	assert.Equal(t, []string{PromptMessage}, prompts)
}

func TestAddImage_InsertsAtCaret(t *testing.T) {
	got, _, _ := runClick(t, "page.html", "ab", 1, 1, promptResult{"u", true})

	assert.Equal(t, `a<img src="u">b`, got)
}

func TestAddImage_SelectionCountsRunes(t *testing.T) {
	got, _, _ := runClick(t, "page.html", "héllo", 2, 2, promptResult{"u", true})

	assert.Equal(t, `hé<img src="u">llo`, got)
}

func TestAddImage_NoFileSelected(t *testing.T) {
	got, prompts, logs := runClick(t, "", "text", 0, 0, promptResult{"u", true})

	assert.Equal(t, "text", got)
	assert.Empty(t, prompts)
	assert.Contains(t, logs.String(), "No file selected.")
}

func TestAddImage_EmptyAnswer(t *testing.T) {
	for name, answer := range map[string]promptResult{
		"cancelled": {"", false},
		"empty":     {"", true},
	} {
		t.Run(name, func(t *testing.T) {
			got, prompts, logs := runClick(t, "page.html", "text", 0, 4, answer)

			assert.Equal(t, "text", got)
			assert.Len(t, prompts, 1)
			assert.Contains(t, logs.String(), "No image URL given.")
		})
	}
}

func TestInsertAtSelection_MovesCaretAfterInsert(t *testing.T) {
	editor := dom.NewElement("textarea")
	editor.SetValue("xy")
	editor.SetSelectionRange(0, 2)

	insertAtSelection(editor, "z")

	assert.Equal(t, "z", editor.Value())
	start, end := editor.SelectionRange()
	assert.Equal(t, 1, start)
	assert.Equal(t, 1, end)
}
