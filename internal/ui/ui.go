package ui

import (
	"context"

	"github.com/Cyclone1070/vault/internal/config"
	"github.com/Cyclone1070/vault/internal/persist"
	"github.com/Cyclone1070/vault/internal/ui/services"
	"github.com/Cyclone1070/vault/internal/ui/views"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// UI is the interactive workspace explorer.
type UI struct {
	program  *tea.Program
	statuses chan persist.Status
}

// SpinnerFactory creates a new spinner
type SpinnerFactory func() spinner.Model

// DefaultSpinner is the spinner shown while an operation runs.
func DefaultSpinner() spinner.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return sp
}

// NewUI creates the explorer over ws. Save indicator updates are fed through
// SetSaveStatus.
func NewUI(
	ctx context.Context,
	ws Workspace,
	cfg config.UIConfig,
	renderer services.MarkdownRenderer,
	spinnerFactory SpinnerFactory,
) *UI {
	views.ApplyTheme(cfg)
	statuses := make(chan persist.Status, 1)
	model := newBubbleTeaModel(ctx, ws, cfg, statuses, renderer, spinnerFactory)
	return &UI{
		program:  tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)),
		statuses: statuses,
	}
}

// Start runs the program until the user quits.
func (u *UI) Start() error {
	_, err := u.program.Run()
	return err
}

// SetSaveStatus updates the save indicator. Safe to call from any goroutine; a status
// not yet picked up by the program is replaced by the newer one.
func (u *UI) SetSaveStatus(status persist.Status) {
	publishLatest(u.statuses, status)
}

func publishLatest(ch chan persist.Status, status persist.Status) {
	for {
		select {
		case ch <- status:
			return
		default:
		}
		// Drop the stale value
		select {
		case <-ch:
		default:
		}
	}
}
