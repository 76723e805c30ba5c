// Package pdf renders a complete invoice to a downloadable PDF artifact.
// Layout: logo or title block, invoice number and dates, From/To columns,
// item grid, totals, notes, terms.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/mabel/billfold/internal/domain"
	"github.com/mabel/billfold/internal/logo"
)

const margin = 20.0

// Filename returns the artifact name for an invoice, derived from its
// number: "Invoice-<number>.pdf". Path separators are stripped so a typed
// invoice number cannot escape the output directory.
func Filename(inv *domain.Invoice) string {
	number := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '-'
		}
		return r
	}, inv.InvoiceNumber)
	if number == "" {
		number = inv.ID
	}
	return fmt.Sprintf("Invoice-%s.pdf", number)
}

// Generate renders the invoice and returns the PDF bytes.
func Generate(inv *domain.Invoice) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 10)
	doc.AddPage()

	pageWidth, _ := doc.GetPageSize()
	y := writeHeader(doc, inv, pageWidth)
	y = writeParties(doc, inv, pageWidth, y)
	y = writeItems(doc, inv, pageWidth, y)
	y = writeTotals(doc, inv, pageWidth, y)
	writeFooter(doc, inv, pageWidth, y)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the invoice into dir and returns the artifact path.
func WriteFile(inv *domain.Invoice, dir string) (string, error) {
	data, err := Generate(inv)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, Filename(inv))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return path, nil
}

// writeHeader draws the logo (or an INVOICE title when there is none) and
// the number/date block, returning the y position below them.
func writeHeader(doc *gofpdf.Fpdf, inv *domain.Invoice, pageWidth float64) float64 {
	y := margin

	if embedLogo(doc, inv.Logo, margin, y) {
		y += 45
	} else {
		doc.SetFont("Helvetica", "B", 22)
		doc.Text(margin, y+8, "INVOICE")
		y += 18
	}

	doc.SetFont("Helvetica", "", 10)
	infoX := pageWidth - margin - 80
	doc.Text(infoX, 30, fmt.Sprintf("Invoice #: %s", inv.InvoiceNumber))
	doc.Text(infoX, 37, fmt.Sprintf("Date Issued: %s", inv.DateIssued))
	doc.Text(infoX, 44, fmt.Sprintf("Date Due: %s", inv.DateDue))

	if y < 50 {
		y = 50
	}
	return y
}

// embedLogo decodes a data URI and places the image. A logo that cannot be
// decoded is skipped rather than failing the export.
func embedLogo(doc *gofpdf.Fpdf, dataURI string, x, y float64) bool {
	if dataURI == "" {
		return false
	}
	mime, data, err := logo.Decode(dataURI)
	if err != nil {
		return false
	}

	var imageType string
	switch mime {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType}
	doc.RegisterImageOptionsReader("invoice-logo", opts, bytes.NewReader(data))
	if doc.Err() {
		return false
	}
	doc.ImageOptions("invoice-logo", x, y, 40, 40, false, opts, 0, "")
	return !doc.Err()
}

func writeParties(doc *gofpdf.Fpdf, inv *domain.Invoice, pageWidth, y float64) float64 {
	fromLines := addressLines(inv.From)
	toLines := addressLines(inv.To)

	writeParty(doc, "From:", fromLines, margin, y)
	writeParty(doc, "To:", toLines, pageWidth/2, y)

	lines := len(fromLines)
	if len(toLines) > lines {
		lines = len(toLines)
	}
	return y + 10 + float64(lines)*6 + 8
}

func writeParty(doc *gofpdf.Fpdf, title string, lines []string, x, y float64) {
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(x, y, title)
	doc.SetFont("Helvetica", "", 10)
	for i, line := range lines {
		doc.Text(x, y+float64(i+1)*6, line)
	}
}

func addressLines(a domain.Address) []string {
	var lines []string
	appendNonEmpty := func(s string) {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}

	appendNonEmpty(a.Name)
	appendNonEmpty(a.Street)
	cityLine := strings.TrimSpace(fmt.Sprintf("%s, %s %s", a.City, a.State, a.ZipCode))
	if cityLine != "," {
		appendNonEmpty(strings.Trim(cityLine, ", "))
	}
	appendNonEmpty(a.Country)
	if a.Phone != "" {
		lines = append(lines, fmt.Sprintf("Phone: %s", a.Phone))
	}
	if a.Email != "" {
		lines = append(lines, fmt.Sprintf("Email: %s", a.Email))
	}
	for _, f := range a.CustomFields {
		if f.Key == "" && f.Value == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s", f.Key, f.Value))
	}
	return lines
}

func writeItems(doc *gofpdf.Fpdf, inv *domain.Invoice, pageWidth, y float64) float64 {
	usable := pageWidth - 2*margin
	widths := []float64{usable * 0.46, usable * 0.14, usable * 0.20, usable * 0.20}
	headers := []string{
		"Description",
		"Quantity",
		fmt.Sprintf("Unit Price (%s)", inv.Currency),
		fmt.Sprintf("Total (%s)", inv.Currency),
	}

	doc.SetY(y)
	doc.SetX(margin)
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(220, 220, 220)
	for i, h := range headers {
		doc.CellFormat(widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		doc.SetX(margin)
		doc.CellFormat(widths[0], 8, item.Description, "1", 0, "L", false, 0, "")
		doc.CellFormat(widths[1], 8, trimFloat(item.Quantity), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[2], 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		doc.CellFormat(widths[3], 8, fmt.Sprintf("%.2f", item.Total), "1", 0, "R", false, 0, "")
		doc.Ln(-1)
	}

	return doc.GetY() + 10
}

func writeTotals(doc *gofpdf.Fpdf, inv *domain.Invoice, pageWidth, y float64) float64 {
	labelX := pageWidth - margin - 50

	doc.SetFont("Helvetica", "", 10)
	doc.Text(labelX, y, "Subtotal:")
	rightText(doc, pageWidth-margin, y, fmt.Sprintf("%s %.2f", inv.Currency, inv.Subtotal))

	y += 7
	doc.Text(labelX, y, fmt.Sprintf("Tax (%s%%):", trimFloat(inv.TaxRate)))
	rightText(doc, pageWidth-margin, y, fmt.Sprintf("%s %.2f", inv.Currency, inv.TaxAmount))

	y += 7
	doc.SetFont("Helvetica", "B", 10)
	doc.Text(labelX, y, "Total:")
	rightText(doc, pageWidth-margin, y, fmt.Sprintf("%s %.2f", inv.Currency, inv.Total))
	doc.SetFont("Helvetica", "", 10)

	return y + 15
}

func writeFooter(doc *gofpdf.Fpdf, inv *domain.Invoice, pageWidth, y float64) {
	usable := pageWidth - 2*margin

	if inv.Notes != "" {
		doc.SetFont("Helvetica", "B", 10)
		doc.Text(margin, y, "Notes:")
		doc.SetFont("Helvetica", "", 10)
		doc.SetXY(margin, y+2)
		doc.MultiCell(usable, 5, inv.Notes, "", "L", false)
		y = doc.GetY() + 10
	}

	if inv.Terms != "" {
		doc.SetFont("Helvetica", "B", 10)
		doc.Text(margin, y, "Terms & Conditions:")
		doc.SetFont("Helvetica", "", 10)
		doc.SetXY(margin, y+2)
		doc.MultiCell(usable, 5, inv.Terms, "", "L", false)
	}
}

func rightText(doc *gofpdf.Fpdf, rightX, y float64, s string) {
	doc.Text(rightX-doc.GetStringWidth(s), y, s)
}

// trimFloat renders a number without trailing zeros (3, 7.5, 12.5).
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
