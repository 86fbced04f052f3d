package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/template"
	"github.com/Cyclone1070/vault/internal/ui/models"
	"github.com/Cyclone1070/vault/internal/ui/services"
	"github.com/Cyclone1070/vault/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// BubbleTeaModel implements tea.Model
type BubbleTeaModel struct {
	state models.State

	ctx       context.Context
	ws        Workspace
	renderer  services.MarkdownRenderer
	tickEvery time.Duration

	statusChan <-chan persist.Status
}

func newBubbleTeaModel(
	ctx context.Context,
	ws Workspace,
	cfg config.UIConfig,
	statusChan <-chan persist.Status,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) BubbleTeaModel {
	ti := textinput.New()
	ti.Placeholder = "..."

	templates := make([]string, 0, len(template.Kinds()))
	for _, k := range template.Kinds() {
		templates = append(templates, string(k))
	}

	m := BubbleTeaModel{
		state: models.State{
			Width:      80,
			Height:     24,
			Input:      ti,
			Viewport:   viewport.New(80-views.TreeWidth-2, 10),
			Spinner:    spinnerFactory(),
			SaveStatus: persist.StatusSaved,
			Templates:  templates,
		},
		ctx:        ctx,
		ws:         ws,
		renderer:   renderer,
		tickEvery:  time.Duration(cfg.TickIntervalMs) * time.Millisecond,
		statusChan: statusChan,
	}
	m.refresh()
	return m
}

// Internal messages
type tickMsg time.Time
type saveStatusMsg persist.Status

// opDoneMsg reports the end of an operation run off the update loop.
type opDoneMsg struct {
	label string
	err   error
}

// Init initializes the model
func (m BubbleTeaModel) Init() tea.Cmd {
	return tea.Batch(
		m.state.Spinner.Tick,
		m.tick(),
		listenForStatus(m.statusChan),
	)
}

// View renders the UI
func (m BubbleTeaModel) View() string {
	return views.RenderRoot(m.state)
}

// Update handles messages
func (m BubbleTeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.state.Viewport.Width = max(msg.Width-views.TreeWidth-2, 10)
		// Reserve space for borders, log, input and status
		m.state.Viewport.Height = max(msg.Height-views.LogHeight-6, 3)
		m.refreshPreview()

	case tickMsg:
		m.state.DotCount = (m.state.DotCount + 1) % 4
		return m, m.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.state.Spinner, cmd = m.state.Spinner.Update(msg)
		return m, cmd

	case saveStatusMsg:
		m.state.SaveStatus = persist.Status(msg)
		return m, listenForStatus(m.statusChan)

	case opDoneMsg:
		m.state.Busy = false
		m.state.BusyLabel = ""
		m.refresh()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m BubbleTeaModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.state.ShowTemplates {
		return m.handleTemplateKey(msg)
	}
	if m.state.Prompt == models.PromptConfirmDelete {
		return m.handleConfirmKey(msg)
	}
	if m.state.Prompt != models.PromptNone {
		return m.handlePromptKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.state.Cursor > 0 {
			m.state.Cursor--
		}
	case "down", "j":
		if m.state.Cursor < len(m.state.Rows)-1 {
			m.state.Cursor++
		}
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.state.Viewport, cmd = m.state.Viewport.Update(msg)
		return m, cmd
	case "enter", " ":
		row, ok := m.state.Selected()
		if !ok {
			return m, nil
		}
		if row.Node.IsFolder() {
			_, _ = m.ws.ToggleFolder(row.Node.ID)
		} else {
			_ = m.ws.Select(row.Node.ID)
		}
		m.refresh()
	case "n":
		return m.openPrompt(models.PromptNewFile, "name.ext"), nil
	case "N":
		return m.openPrompt(models.PromptNewFolder, "folder"), nil
	case "a":
		return m.openPrompt(models.PromptAsk, "what should the code do?"), nil
	case "p":
		return m.openPrompt(models.PromptPull, "owner/repo"), nil
	case "d":
		if _, ok := m.state.Selected(); ok {
			m.state.Prompt = models.PromptConfirmDelete
		}
	case "g":
		_, _ = m.ws.GenerateGitignore()
		m.refresh()
	case "t":
		m.state.ShowTemplates = true
		m.state.TemplateIndex = 0
	case "r":
		return m.startOp("Running", func(ctx context.Context) error {
			_, err := m.ws.Run(ctx)
			return err
		})
	}
	return m, nil
}

func (m BubbleTeaModel) handleTemplateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.state.TemplateIndex > 0 {
			m.state.TemplateIndex--
		}
	case "down", "j":
		if m.state.TemplateIndex < len(m.state.Templates)-1 {
			m.state.TemplateIndex++
		}
	case "enter":
		if m.state.TemplateIndex < len(m.state.Templates) {
			_ = m.ws.LoadTemplate(template.Kind(m.state.Templates[m.state.TemplateIndex]))
			m.state.Cursor = 0
		}
		m.state.ShowTemplates = false
		m.refresh()
	case "esc":
		m.state.ShowTemplates = false
	}
	return m, nil
}

func (m BubbleTeaModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" {
		if row, ok := m.state.Selected(); ok {
			_, _ = m.ws.Delete(row.Node.ID)
		}
		m.refresh()
	}
	m.state.Prompt = models.PromptNone
	return m, nil
}

func (m BubbleTeaModel) openPrompt(p models.Prompt, placeholder string) BubbleTeaModel {
	m.state.Prompt = p
	m.state.Input.Placeholder = placeholder
	m.state.Input.SetValue("")
	m.state.Input.Focus()
	return m
}

func (m BubbleTeaModel) closePrompt() BubbleTeaModel {
	m.state.Prompt = models.PromptNone
	m.state.Input.SetValue("")
	m.state.Input.Blur()
	return m
}

func (m BubbleTeaModel) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.closePrompt(), nil
	case "enter":
		value := strings.TrimSpace(m.state.Input.Value())
		prompt := m.state.Prompt
		m = m.closePrompt()
		if value == "" {
			return m, nil
		}
		return m.submit(prompt, value)
	}

	var cmd tea.Cmd
	m.state.Input, cmd = m.state.Input.Update(msg)
	return m, cmd
}

func (m BubbleTeaModel) submit(prompt models.Prompt, value string) (tea.Model, tea.Cmd) {
	switch prompt {
	case models.PromptNewFile:
		_, _ = m.ws.CreateFile(value, "", m.targetFolder())
	case models.PromptNewFolder:
		_, _ = m.ws.CreateFolder(value, m.targetFolder())
	case models.PromptAsk:
		return m.startOp("Generating", func(ctx context.Context) error {
			_, err := m.ws.Ask(ctx, value)
			return err
		})
	case models.PromptPull:
		return m.startOp(fmt.Sprintf("Pulling %s", value), func(ctx context.Context) error {
			_, err := m.ws.ImportRemote(ctx, value)
			return err
		})
	}
	m.refresh()
	return m, nil
}

// targetFolder is the folder new nodes are created in: the folder under the cursor,
// or the parent of the file under the cursor.
func (m BubbleTeaModel) targetFolder() string {
	row, ok := m.state.Selected()
	if !ok {
		return ""
	}
	if row.Node.IsFolder() {
		return row.Node.ID
	}
	return row.Node.ParentID
}

// startOp runs fn off the update loop. Only one operation runs at a time.
func (m BubbleTeaModel) startOp(label string, fn func(ctx context.Context) error) (tea.Model, tea.Cmd) {
	if m.state.Busy {
		return m, nil
	}
	m.state.Busy = true
	m.state.BusyLabel = label
	ctx := m.ctx
	return m, func() tea.Msg {
		return opDoneMsg{label: label, err: fn(ctx)}
	}
}

// refresh reloads everything derived from the workspace.
func (m *BubbleTeaModel) refresh() {
	m.state.Rows = visibleRows(m.ws.Graph())
	if m.state.Cursor >= len(m.state.Rows) {
		m.state.Cursor = max(len(m.state.Rows)-1, 0)
	}
	m.state.Log = m.ws.Log()
	m.refreshPreview()
}

func (m *BubbleTeaModel) refreshPreview() {
	active, ok := m.ws.Active()
	if !ok {
		m.state.ActiveID = ""
		m.state.ActivePath = ""
		m.state.Viewport.SetContent("")
		return
	}
	m.state.ActiveID = active.ID
	m.state.ActivePath, _ = m.ws.Path(active.ID)
	m.state.Viewport.SetContent(services.RenderPreview(active, m.state.Viewport.Width, m.renderer))
}

func listenForStatus(ch <-chan persist.Status) tea.Cmd {
	return func() tea.Msg {
		return saveStatusMsg(<-ch)
	}
}

func (m BubbleTeaModel) tick() tea.Cmd {
	every := m.tickEvery
	if every <= 0 {
		every = 300 * time.Millisecond
	}
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
