package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mabel/billfold/internal/domain"
)

const previewWidth = 58

// renderPreview draws the invoice roughly the way the PDF lays it out, so
// every committed edit is reflected immediately next to the form.
func renderPreview(inv *domain.Invoice) string {
	var b strings.Builder

	b.WriteString(previewTitleStyle.Render("INVOICE"))
	if inv.Logo != "" {
		b.WriteString(subtitleStyle.Render("  [logo]"))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s\n", inv.InvoiceNumber))
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Issued: %s   Due: %s", inv.DateIssued, inv.DateDue)))
	b.WriteString("\n\n")

	from := renderParty("From", inv.From)
	to := renderParty("Bill To", inv.To)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(previewWidth/2).Render(from),
		to))
	b.WriteString("\n\n")

	b.WriteString(renderItems(inv))
	b.WriteString("\n")
	b.WriteString(renderTotals(inv))

	if inv.Notes != "" {
		b.WriteString("\n\n" + labelStyle.Render("Notes") + "\n" + inv.Notes)
	}
	if inv.Terms != "" {
		b.WriteString("\n\n" + labelStyle.Render("Terms") + "\n" + inv.Terms)
	}

	return previewStyle.Width(previewWidth).Render(b.String())
}

func renderParty(title string, a domain.Address) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(title) + "\n")

	lines := []string{a.Name, a.Street}
	cityLine := strings.TrimSpace(strings.Trim(fmt.Sprintf("%s, %s %s", a.City, a.State, a.ZipCode), ", "))
	lines = append(lines, cityLine, a.Country, a.Email, a.Phone)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(truncateStr(line, previewWidth/2-2) + "\n")
	}
	for _, cf := range a.CustomFields {
		if cf.Key == "" && cf.Value == "" {
			continue
		}
		b.WriteString(truncateStr(fmt.Sprintf("%s: %s", cf.Key, cf.Value), previewWidth/2-2) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderItems(inv *domain.Invoice) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-26s %5s %10s %11s", "Description", "Qty", "Price", "Total")))
	b.WriteString("\n")

	if len(inv.Items) == 0 {
		b.WriteString(subtitleStyle.Render("  (no items)"))
		return b.String()
	}

	for _, item := range inv.Items {
		desc := item.Description
		if desc == "" {
			desc = "-"
		}
		b.WriteString(fmt.Sprintf("%-26s %5s %10s %11s\n",
			truncateStr(desc, 26),
			formatQuantity(item.Quantity),
			formatMoney(inv.Currency, item.UnitPrice),
			formatMoney(inv.Currency, item.Total)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTotals(inv *domain.Invoice) string {
	var b strings.Builder
	write := func(label, value string, style lipgloss.Style) {
		line := fmt.Sprintf("%s %s", label, value)
		pad := previewWidth - 6 - lipgloss.Width(line)
		if pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(style.Render(line) + "\n")
	}

	write("Subtotal:", formatMoney(inv.Currency, inv.Subtotal), subtitleStyle)
	write(fmt.Sprintf("Tax (%s%%):", formatQuantity(inv.TaxRate)), formatMoney(inv.Currency, inv.TaxAmount), subtitleStyle)
	write("Total:", formatMoney(inv.Currency, inv.Total), totalStyle)
	return strings.TrimRight(b.String(), "\n")
}
