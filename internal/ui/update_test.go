package ui

import (
	"context"
	"testing"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/ui/models"
	"github.com/Cyclone1070/vault/internal/workspace"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock dependencies
type MockMarkdownRenderer struct {
	RenderFunc func(string, int) (string, error)
}

func (m *MockMarkdownRenderer) Render(content string, width int) (string, error) {
	if m.RenderFunc != nil {
		return m.RenderFunc(content, width)
	}
	return content, nil
}

func mockSpinnerFactory() spinner.Model {
	return spinner.New()
}

func createTestModel(t *testing.T) (BubbleTeaModel, *workspace.Workspace) {
	t.Helper()
	ws, err := workspace.New(persist.Document{}, workspace.Dependencies{})
	require.NoError(t, err)
	m := newBubbleTeaModel(context.Background(), ws, config.DefaultConfig().UI, make(chan persist.Status), &MockMarkdownRenderer{}, mockSpinnerFactory)
	return m, ws
}

func press(t *testing.T, m BubbleTeaModel, keys ...string) BubbleTeaModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(BubbleTeaModel)
	}
	return m
}

func TestInit_ReturnsCommands(t *testing.T) {
	model, _ := createTestModel(t)
	assert.NotNil(t, model.Init())
}

func TestUpdate_NewFilePrompt_CreatesFile(t *testing.T) {
	model, ws := createTestModel(t)

	model = press(t, model, "n")
	assert.Equal(t, models.PromptNewFile, model.state.Prompt)
	model = press(t, model, "main.py", "enter")

	assert.Equal(t, models.PromptNone, model.state.Prompt)
	require.Len(t, model.state.Rows, 1)
	active, ok := ws.Active()
	require.True(t, ok)
	assert.Equal(t, "main.py", active.Name)
	assert.Equal(t, active.ID, model.state.ActiveID)
	assert.Equal(t, "main.py", model.state.ActivePath)
}

func TestUpdate_NewFileInsideFolderUnderCursor(t *testing.T) {
	model, ws := createTestModel(t)
	dir, err := ws.CreateFolder("src", "")
	require.NoError(t, err)
	model.refresh()

	model = press(t, model, "n", "a.go", "enter")

	found, ok := ws.Find("src/a.go")
	require.True(t, ok)
	assert.Equal(t, dir.ID, found.ParentID)
	assert.Len(t, model.state.Rows, 2)
	assert.Equal(t, 1, model.state.Rows[1].Depth)
}

func TestUpdate_EscCancelsPrompt(t *testing.T) {
	model, ws := createTestModel(t)

	model = press(t, model, "N", "tmp", "esc")

	assert.Equal(t, models.PromptNone, model.state.Prompt)
	assert.Empty(t, ws.Graph().Nodes())
}

func TestUpdate_EnterTogglesFolder(t *testing.T) {
	model, ws := createTestModel(t)
	dir, _ := ws.CreateFolder("src", "")
	_, _ = ws.CreateFile("a.go", "", dir.ID)
	model.refresh()
	require.Len(t, model.state.Rows, 2)

	model = press(t, model, "up", "up", "enter")

	assert.Len(t, model.state.Rows, 1)
	n, _ := ws.Graph().Get(dir.ID)
	assert.False(t, n.Expanded)
}

func TestUpdate_DeleteNeedsConfirmation(t *testing.T) {
	model, ws := createTestModel(t)
	_, _ = ws.CreateFile("a.go", "", "")
	model.refresh()

	model = press(t, model, "d", "n")
	assert.Len(t, ws.Graph().Nodes(), 1)

	model = press(t, model, "d", "y")
	assert.Empty(t, ws.Graph().Nodes())
	assert.Empty(t, model.state.Rows)
	assert.Equal(t, models.PromptNone, model.state.Prompt)
}

func TestUpdate_TemplatePopup(t *testing.T) {
	model, ws := createTestModel(t)

	model = press(t, model, "t")
	assert.True(t, model.state.ShowTemplates)
	model = press(t, model, "down", "enter")

	assert.False(t, model.state.ShowTemplates)
	nodes := ws.Graph().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, model.state.Templates[1], nodes[0].Language)
}

func TestUpdate_GitignoreKey(t *testing.T) {
	model, ws := createTestModel(t)

	model = press(t, model, "g")

	_, ok := ws.Find(".gitignore")
	assert.True(t, ok)
	assert.NotEmpty(t, model.state.Log)
}

func TestUpdate_RunIsAsync(t *testing.T) {
	model, ws := createTestModel(t)
	_, _ = ws.CreateFile("main.py", "", "")
	model.refresh()

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	model = next.(BubbleTeaModel)
	require.NotNil(t, cmd)
	assert.True(t, model.state.Busy)

	done := cmd()
	next, _ = model.Update(done)
	model = next.(BubbleTeaModel)

	assert.False(t, model.state.Busy)
	// No executor is configured, so the run fails into the log.
	assert.Contains(t, model.state.Log[len(model.state.Log)-1].Text, "Execution failed")
}

func TestUpdate_SaveStatus(t *testing.T) {
	model, _ := createTestModel(t)

	next, cmd := model.Update(saveStatusMsg(persist.StatusError))
	model = next.(BubbleTeaModel)

	assert.Equal(t, persist.StatusError, model.state.SaveStatus)
	assert.NotNil(t, cmd)
}

func TestSetSaveStatus_KeepsLatestWhenUnread(t *testing.T) {
	u := &UI{statuses: make(chan persist.Status, 1)}

	u.SetSaveStatus(persist.StatusSaving)
	u.SetSaveStatus(persist.StatusSaved)

	require.Len(t, u.statuses, 1)
	assert.Equal(t, persist.StatusSaved, <-u.statuses)
}

func TestUpdate_WindowSize(t *testing.T) {
	model, _ := createTestModel(t)

	next, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = next.(BubbleTeaModel)

	assert.Equal(t, 120, model.state.Width)
	assert.Equal(t, 40, model.state.Height)
	assert.Greater(t, model.state.Viewport.Width, 0)
}

func TestUpdate_Quit(t *testing.T) {
	model, _ := createTestModel(t)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_RendersPreview(t *testing.T) {
	model, ws := createTestModel(t)
	f, _ := ws.CreateFile("notes.md", "", "")
	require.NoError(t, ws.SetContent(f.ID, "# Hello"))
	model.refresh()

	out := model.View()

	assert.Contains(t, out, "notes.md")
	assert.Contains(t, out, "# Hello")
}
