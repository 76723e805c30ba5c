package tui

import "github.com/mabel/billfold/internal/domain"

// SwitchScreenMsg requests a screen change
type SwitchScreenMsg struct {
	Screen Screen
}

// RefreshDataMsg requests data refresh
type RefreshDataMsg struct{}

// ErrorMsg carries error information
type ErrorMsg struct {
	Err error
}

// LoadInvoiceMsg asks the editor screen to take over the given invoice
type LoadInvoiceMsg struct {
	Invoice *domain.Invoice
}

// invoicesLoadedMsg carries the saved invoice list
type invoicesLoadedMsg struct {
	invoices []*domain.Invoice
	err      error
}

// invoiceSavedMsg reports the outcome of a save
type invoiceSavedMsg struct {
	err error
}

// invoiceDeletedMsg reports the outcome of a delete
type invoiceDeletedMsg struct {
	err error
}

// pdfExportedMsg reports where the PDF landed
type pdfExportedMsg struct {
	path string
	err  error
}
