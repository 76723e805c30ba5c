package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabel/billfold/internal/app"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenEditor Screen = iota
	ScreenSaved
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenEditor:
		return "Editor"
	case ScreenSaved:
		return "Saved Invoices"
	default:
		return "Unknown"
	}
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (editor is eager, saved is lazy)
	editor tea.Model
	saved  tea.Model

	// Error state
	err error
}

// New creates a new root model
func New(a *app.App) Model {
	editor := NewEditorModel(a)
	return Model{
		app:           a,
		currentScreen: ScreenEditor,
		editor:        editor,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if m.editor != nil {
		return m.editor.Init()
	}
	return nil
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	switch screen {
	case ScreenEditor:
		if m.editor == nil {
			m.editor = NewEditorModel(m.app)
			return m.editor.Init()
		}
		return nil
	case ScreenSaved:
		if m.saved == nil {
			m.saved = NewSavedModel(m.app)
			return m.saved.Init()
		}
		return func() tea.Msg { return RefreshDataMsg{} }
	}
	return nil
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys (E, S, Q) are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	var screen tea.Model
	switch m.currentScreen {
	case ScreenEditor:
		screen = m.editor
	case ScreenSaved:
		screen = m.saved
	}
	if ic, ok := screen.(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Skip global navigation when a screen is capturing text input
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit

			case key.Matches(msg, DefaultKeyMap.Editor):
				m.currentScreen = ScreenEditor
				cmd := m.initScreen(ScreenEditor)
				return m, cmd

			case key.Matches(msg, DefaultKeyMap.Saved):
				m.currentScreen = ScreenSaved
				cmd := m.initScreen(ScreenSaved)
				return m, cmd
			}
		}

	case SwitchScreenMsg:
		m.currentScreen = msg.Screen
		cmd := m.initScreen(msg.Screen)
		return m, cmd

	case LoadInvoiceMsg:
		// Hand the chosen invoice to the editor and bring it to front
		m.currentScreen = ScreenEditor
		initCmd := m.initScreen(ScreenEditor)
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, tea.Batch(initCmd, cmd)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	switch m.currentScreen {
	case ScreenEditor:
		if m.editor != nil {
			m.editor, cmd = m.editor.Update(msg)
		}
	case ScreenSaved:
		if m.saved != nil {
			m.saved, cmd = m.saved.Update(msg)
		}
	}

	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	// Header
	header := headerStyle.Render(fmt.Sprintf("billfold - %s", m.currentScreen.String()))

	// Footer with navigation keys
	footer := footerStyle.Render("[E]ditor  [S]aved  [Q]uit")

	// Current screen content
	var content string
	switch m.currentScreen {
	case ScreenEditor:
		if m.editor != nil {
			content = m.editor.View()
		} else {
			content = "Loading..."
		}
	case ScreenSaved:
		if m.saved != nil {
			content = m.saved.View()
		} else {
			content = "Loading..."
		}
	}

	// Error display
	errorDisplay := ""
	if m.err != nil {
		errorDisplay = lipgloss.NewStyle().
			Foreground(errorColor).
			Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	// Divider line between header and content
	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(
		strings.Repeat("─", dividerWidth),
	)

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	// Wrap in border, sized to terminal
	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4) // leave room for border top/bottom
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
