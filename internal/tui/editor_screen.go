package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mabel/billfold/internal/app"
	"github.com/mabel/billfold/internal/domain"
	"github.com/mabel/billfold/internal/editor"
	"github.com/mabel/billfold/internal/logo"
	"github.com/mabel/billfold/internal/pdf"
)

type rowKind int

const (
	rowHeading rowKind = iota
	rowField
	rowLogo
	rowAddress
	rowCustomKey
	rowCustomValue
	rowItemDesc
	rowItemQty
	rowItemPrice
	rowTaxRate
)

// row is one selectable line of the form. Which of the reference fields are
// meaningful depends on kind.
type row struct {
	kind  rowKind
	label string
	value string

	field     editor.Field
	side      domain.Side
	addrField editor.AddressField
	key       string
	itemID    string
}

func (r row) selectable() bool {
	return r.kind != rowHeading
}

// EditorModel is the invoice form with a live preview beside it
type EditorModel struct {
	app     *app.App
	invoice *domain.Invoice

	rows   []row
	cursor int

	editing bool
	input   textinput.Model

	err       error
	statusMsg string
}

// NewEditorModel creates the editor screen with a fresh invoice
func NewEditorModel(a *app.App) tea.Model {
	m := &EditorModel{
		app:     a,
		invoice: a.NewInvoice(),
	}
	m.rebuildRows()
	return m
}

// IsCapturingInput returns true while a field is being edited
func (m *EditorModel) IsCapturingInput() bool {
	return m.editing
}

func (m *EditorModel) Init() tea.Cmd {
	return nil
}

// rebuildRows flattens the invoice into form rows. Called after every
// committed edit so labels and values track the current invoice.
func (m *EditorModel) rebuildRows() {
	inv := m.invoice
	rows := []row{
		{kind: rowHeading, label: "Invoice"},
		{kind: rowField, label: "Number", value: inv.InvoiceNumber, field: editor.FieldInvoiceNumber},
		{kind: rowField, label: "Date issued", value: inv.DateIssued, field: editor.FieldDateIssued},
		{kind: rowField, label: "Date due", value: inv.DateDue, field: editor.FieldDateDue},
		{kind: rowField, label: "Currency", value: inv.Currency, field: editor.FieldCurrency},
		{kind: rowLogo, label: "Logo file", value: logoSummary(inv.Logo)},
	}

	rows = append(rows, addressRows("From", domain.SideFrom, inv.From)...)
	rows = append(rows, addressRows("Bill To", domain.SideTo, inv.To)...)

	rows = append(rows, row{kind: rowHeading, label: "Items"})
	for i, item := range inv.Items {
		label := fmt.Sprintf("Item %d", i+1)
		rows = append(rows,
			row{kind: rowItemDesc, label: label + " description", value: item.Description, itemID: item.ID},
			row{kind: rowItemQty, label: label + " quantity", value: formatQuantity(item.Quantity), itemID: item.ID},
			row{kind: rowItemPrice, label: label + " unit price", value: formatQuantity(item.UnitPrice), itemID: item.ID},
		)
	}

	rows = append(rows,
		row{kind: rowHeading, label: "Totals"},
		row{kind: rowTaxRate, label: "Tax rate (%)", value: formatQuantity(inv.TaxRate)},
		row{kind: rowHeading, label: "Footer"},
		row{kind: rowField, label: "Notes", value: inv.Notes, field: editor.FieldNotes},
		row{kind: rowField, label: "Terms", value: inv.Terms, field: editor.FieldTerms},
	)

	m.rows = rows
	m.clampCursor()
}

func addressRows(heading string, side domain.Side, a domain.Address) []row {
	rows := []row{
		{kind: rowHeading, label: heading},
		{kind: rowAddress, label: "Name", value: a.Name, side: side, addrField: editor.AddrName},
		{kind: rowAddress, label: "Street", value: a.Street, side: side, addrField: editor.AddrStreet},
		{kind: rowAddress, label: "City", value: a.City, side: side, addrField: editor.AddrCity},
		{kind: rowAddress, label: "State", value: a.State, side: side, addrField: editor.AddrState},
		{kind: rowAddress, label: "Zip", value: a.ZipCode, side: side, addrField: editor.AddrZipCode},
		{kind: rowAddress, label: "Country", value: a.Country, side: side, addrField: editor.AddrCountry},
		{kind: rowAddress, label: "Email", value: a.Email, side: side, addrField: editor.AddrEmail},
		{kind: rowAddress, label: "Phone", value: a.Phone, side: side, addrField: editor.AddrPhone},
	}
	for _, cf := range a.CustomFields {
		rows = append(rows,
			row{kind: rowCustomKey, label: "Field name", value: cf.Key, side: side, key: cf.Key},
			row{kind: rowCustomValue, label: cf.Key, value: cf.Value, side: side, key: cf.Key},
		)
	}
	return rows
}

func logoSummary(dataURI string) string {
	if dataURI == "" {
		return ""
	}
	return fmt.Sprintf("(embedded, %d bytes)", len(dataURI))
}

func (m *EditorModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// Never rest on a heading
	for m.cursor < len(m.rows)-1 && !m.rows[m.cursor].selectable() {
		m.cursor++
	}
}

func (m *EditorModel) moveCursor(delta int) {
	i := m.cursor
	for {
		i += delta
		if i < 0 || i >= len(m.rows) {
			return
		}
		if m.rows[i].selectable() {
			m.cursor = i
			return
		}
	}
}

func (m *EditorModel) startEdit() tea.Cmd {
	r := m.rows[m.cursor]

	m.input = textinput.New()
	m.input.CharLimit = 512
	m.input.Width = 40
	switch r.kind {
	case rowLogo:
		m.input.Placeholder = "/path/to/logo.png (empty clears)"
		m.input.SetValue("")
	default:
		m.input.SetValue(r.value)
	}
	m.editing = true
	m.err = nil
	m.statusMsg = ""
	return m.input.Focus()
}

// commitEdit routes the entered value through the matching invoice
// operation. Numeric fields coerce unparseable input to 0.
func (m *EditorModel) commitEdit() {
	r := m.rows[m.cursor]
	value := m.input.Value()
	m.editing = false

	switch r.kind {
	case rowField:
		m.invoice = editor.SetField(m.invoice, r.field, value)
	case rowAddress:
		m.invoice = editor.SetAddressField(m.invoice, r.side, r.addrField, value)
	case rowCustomKey:
		m.invoice = editor.RenameCustomField(m.invoice, r.side, r.key, value)
	case rowCustomValue:
		m.invoice = editor.SetCustomFieldValue(m.invoice, r.side, r.key, value)
	case rowItemDesc:
		m.invoice = editor.UpdateItem(m.invoice, r.itemID, editor.ItemPatch{Description: &value})
	case rowItemQty:
		qty := parseAmount(value)
		m.invoice = editor.UpdateItem(m.invoice, r.itemID, editor.ItemPatch{Quantity: &qty})
	case rowItemPrice:
		price := parseAmount(value)
		m.invoice = editor.UpdateItem(m.invoice, r.itemID, editor.ItemPatch{UnitPrice: &price})
	case rowTaxRate:
		rate := parseAmount(value)
		if rate < 0 {
			rate = 0
		}
		m.invoice = editor.SetTaxRate(m.invoice, rate)
	case rowLogo:
		if value == "" {
			m.invoice = editor.SetField(m.invoice, editor.FieldLogo, "")
			break
		}
		dataURI, err := logo.FromFile(value)
		if err != nil {
			m.err = err
			return
		}
		m.invoice = editor.SetField(m.invoice, editor.FieldLogo, dataURI)
	}

	m.rebuildRows()
}

// deleteAtCursor removes the selected item or custom field, if any
func (m *EditorModel) deleteAtCursor() {
	r := m.rows[m.cursor]
	switch r.kind {
	case rowItemDesc, rowItemQty, rowItemPrice:
		m.invoice = editor.RemoveItem(m.invoice, r.itemID)
	case rowCustomKey, rowCustomValue:
		m.invoice = editor.RemoveCustomField(m.invoice, r.side, r.key)
	default:
		return
	}
	m.rebuildRows()
}

func (m *EditorModel) saveInvoice() tea.Cmd {
	inv := m.invoice
	return func() tea.Msg {
		return invoiceSavedMsg{err: m.app.Invoices.Save(context.Background(), inv)}
	}
}

func (m *EditorModel) exportPDF() tea.Cmd {
	inv := m.invoice
	outDir := m.app.Config.Invoice.OutputDir
	return func() tea.Msg {
		path, err := pdf.WriteFile(inv, outDir)
		return pdfExportedMsg{path: path, err: err}
	}
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case LoadInvoiceMsg:
		m.invoice = msg.Invoice.Clone()
		m.cursor = 0
		m.err = nil
		m.statusMsg = fmt.Sprintf("Loaded %s", m.invoice.InvoiceNumber)
		m.rebuildRows()
		return m, nil

	case invoiceSavedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.statusMsg = "Saved"
		}
		return m, nil

	case pdfExportedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.statusMsg = fmt.Sprintf("Exported %s", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, DefaultKeyMap.Up):
			m.moveCursor(-1)
		case key.Matches(msg, DefaultKeyMap.Down):
			m.moveCursor(1)
		case key.Matches(msg, DefaultKeyMap.Select):
			return m, m.startEdit()
		case key.Matches(msg, DefaultKeyMap.AddItem):
			m.invoice = editor.AddItem(m.invoice)
			m.rebuildRows()
		case key.Matches(msg, DefaultKeyMap.FieldFrom):
			m.invoice = editor.AddCustomField(m.invoice, domain.SideFrom)
			m.rebuildRows()
		case key.Matches(msg, DefaultKeyMap.FieldTo):
			m.invoice = editor.AddCustomField(m.invoice, domain.SideTo)
			m.rebuildRows()
		case key.Matches(msg, DefaultKeyMap.Delete):
			m.deleteAtCursor()
		case key.Matches(msg, DefaultKeyMap.Save):
			return m, m.saveInvoice()
		case key.Matches(msg, DefaultKeyMap.Export):
			return m, m.exportPDF()
		case key.Matches(msg, DefaultKeyMap.New):
			m.invoice = m.app.NewInvoice()
			m.cursor = 0
			m.statusMsg = "New invoice"
			m.rebuildRows()
		}
	}

	return m, nil
}

func (m *EditorModel) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.editing = false
			return m, nil
		case "enter":
			m.commitEdit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// formHeight is how many rows fit in the form pane before it scrolls
const formHeight = 22

func (m *EditorModel) View() string {
	form := m.viewForm()
	preview := renderPreview(m.invoice)
	body := lipgloss.JoinHorizontal(lipgloss.Top, form, "  ", preview)

	status := ""
	if m.err != nil {
		status = lipgloss.NewStyle().Foreground(errorColor).Render("Error: " + m.err.Error())
	} else if m.statusMsg != "" {
		status = statusStyle.Render(m.statusMsg)
	}

	help := helpStyle.Render("enter: edit  a: add item  f/t: add custom field  d: delete  w: save  p: pdf  n: new")

	return body + "\n" + status + "\n" + help
}

func (m *EditorModel) viewForm() string {
	// Scroll window around the cursor
	start := 0
	if m.cursor >= formHeight {
		start = m.cursor - formHeight + 1
	}
	end := start + formHeight
	if end > len(m.rows) {
		end = len(m.rows)
	}

	var s string
	for i := start; i < end; i++ {
		r := m.rows[i]

		if r.kind == rowHeading {
			s += titleStyle.Render(r.label) + "\n"
			continue
		}

		label := fmt.Sprintf("%-20s", truncateStr(r.label, 20))
		if m.editing && i == m.cursor {
			s += fmt.Sprintf("> %s %s\n", labelStyle.Render(label), m.input.View())
			continue
		}

		line := fmt.Sprintf("%s %s", labelStyle.Render(label), truncateStr(r.value, 32))
		if i == m.cursor {
			s += selectedStyle.Render(fmt.Sprintf("> %s %s", label, truncateStr(r.value, 32))) + "\n"
		} else {
			s += "  " + line + "\n"
		}
	}
	return lipgloss.NewStyle().Width(58).Render(s)
}
