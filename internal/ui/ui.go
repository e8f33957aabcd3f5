package ui

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/discog/internal/models"
	"github.com/desertthunder/discog/internal/shared"
	"github.com/desertthunder/discog/internal/tasks"
)

var _ tasks.Chooser = ListChooser{}

const (
	defaultWidth  = 80
	defaultHeight = 20
)

// Model is the chooser state: a list of candidates and the outcome once the user leaves.
type Model struct {
	searchName string
	list       list.Model
	help       help.Model
	keys       keyMap
	choice     int
	cancelled  bool
}

// NewModel creates a chooser model for candidates matching searchName.
func NewModel(searchName string, candidates []models.ArtistCandidate) *Model {
	l := list.New(candidateItems(candidates), list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = fmt.Sprintf("Artists matching %q", searchName)
	l.SetShowHelp(false)

	return &Model{
		searchName: searchName,
		list:       l,
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.keys.back) && m.list.FilterState() == list.FilterApplied:
			// esc clears the filter first
		case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.back):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.list.SelectedItem().(candidateItem); ok {
				m.choice = item.position
				return m, tea.Quit
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the candidate list, or nothing once a choice was made.
func (m *Model) View() string {
	if m.done() {
		return ""
	}
	return fmt.Sprintf("%s\n%s", m.list.View(), m.help.ShortHelpView(m.keys.ShortHelp()))
}

func (m *Model) done() bool {
	return m.cancelled || m.choice > 0
}

// Choice returns the 1-based selection.
func (m *Model) Choice() (int, error) {
	switch {
	case m.cancelled:
		return 0, fmt.Errorf("%w: %q", shared.ErrChoiceCancelled, m.searchName)
	case m.choice == 0:
		return 0, shared.ErrInvalidChoice
	}
	return m.choice, nil
}

// ListChooser asks the user to pick a candidate from a bubbletea list.
//
// Nil In and Out use the program defaults (stdin, stdout).
type ListChooser struct {
	In  io.Reader
	Out io.Writer
}

func (c ListChooser) Choose(ctx context.Context, searchName string, candidates []models.ArtistCandidate) (int, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.In != nil {
		opts = append(opts, tea.WithInput(c.In))
	}
	if c.Out != nil {
		opts = append(opts, tea.WithOutput(c.Out))
	}

	final, err := tea.NewProgram(NewModel(searchName, candidates), opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if errors.Is(err, tea.ErrInterrupted) {
			return 0, fmt.Errorf("%w: %q", shared.ErrChoiceCancelled, searchName)
		}
		return 0, fmt.Errorf("chooser failed: %w", err)
	}

	model, ok := final.(*Model)
	if !ok {
		return 0, shared.ErrInvalidChoice
	}
	return model.Choice()
}
