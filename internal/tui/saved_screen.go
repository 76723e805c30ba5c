package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabel/billfold/internal/app"
	"github.com/mabel/billfold/internal/domain"
)

// SavedModel lists saved invoices, most recently saved first
type SavedModel struct {
	app      *app.App
	invoices []*domain.Invoice
	cursor   int

	err       error
	statusMsg string
}

// NewSavedModel creates the saved invoices screen
func NewSavedModel(a *app.App) tea.Model {
	return &SavedModel{app: a}
}

func (m *SavedModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *SavedModel) loadInvoices() tea.Cmd {
	return func() tea.Msg {
		invoices, err := m.app.Invoices.LoadAll(context.Background())
		return invoicesLoadedMsg{invoices: invoices, err: err}
	}
}

func (m *SavedModel) deleteSelected() tea.Cmd {
	if m.cursor >= len(m.invoices) {
		return nil
	}
	id := m.invoices[m.cursor].ID
	return func() tea.Msg {
		return invoiceDeletedMsg{err: m.app.Invoices.Remove(context.Background(), id)}
	}
}

func (m *SavedModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		return m, m.loadInvoices()

	case invoicesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.invoices = msg.invoices
		if m.cursor >= len(m.invoices) && m.cursor > 0 {
			m.cursor = len(m.invoices) - 1
		}
		return m, nil

	case invoiceDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = "Invoice deleted"
		return m, m.loadInvoices()

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, DefaultKeyMap.Down):
			if m.cursor < len(m.invoices)-1 {
				m.cursor++
			}
		case key.Matches(msg, DefaultKeyMap.Select):
			if m.cursor < len(m.invoices) {
				inv := m.invoices[m.cursor]
				return m, func() tea.Msg { return LoadInvoiceMsg{Invoice: inv} }
			}
		case key.Matches(msg, DefaultKeyMap.Delete):
			return m, m.deleteSelected()
		}
	}

	return m, nil
}

func (m *SavedModel) View() string {
	var s string
	s += titleStyle.Render("Saved Invoices") + "\n\n"

	if m.statusMsg != "" {
		s += statusStyle.Render("  "+m.statusMsg) + "\n\n"
	}
	if m.err != nil {
		s += lipgloss.NewStyle().Foreground(errorColor).
			Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n"
	}

	if len(m.invoices) == 0 {
		s += subtitleStyle.Render("  No saved invoices yet. Save one from the editor with 'w'.") + "\n"
		return s
	}

	header := fmt.Sprintf("  %-18s %-24s %-12s %12s", "Number", "Bill To", "Issued", "Total")
	s += subtitleStyle.Render(header) + "\n"

	for i, inv := range m.invoices {
		to := inv.To.Name
		if to == "" {
			to = "-"
		}
		line := fmt.Sprintf("%-18s %-24s %-12s %12s",
			truncateStr(inv.InvoiceNumber, 18),
			truncateStr(to, 24),
			inv.DateIssued,
			formatMoney(inv.Currency, inv.Total))

		if i == m.cursor {
			s += selectedStyle.Render("> "+line) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}

	s += "\n" + helpStyle.Render("  enter: open in editor  d: delete  ↑/↓: move")
	return s
}
