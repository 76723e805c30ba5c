package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mabel/billfold/internal/domain"
	"github.com/mabel/billfold/internal/editor"
	"github.com/mabel/billfold/internal/logo"
	"github.com/mabel/billfold/internal/pdf"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create and save a fresh invoice",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv := appInstance.NewInvoice()
		if err := appInstance.Invoices.Save(ctx, inv); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		fmt.Printf("✓ Created invoice %s\n", inv.InvoiceNumber)
		fmt.Printf("  ID: %s\n", inv.ID)
		fmt.Printf("  Issued: %s  Due: %s\n", inv.DateIssued, inv.DateDue)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoices, err := appInstance.Invoices.LoadAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Println("No saved invoices")
			return nil
		}

		fmt.Printf("%-38s %-16s %-20s %-12s %-10s\n", "ID", "Number", "To", "Due", "Total")
		fmt.Println(strings.Repeat("-", 100))
		for _, inv := range invoices {
			fmt.Printf("%-38s %-16s %-20s %-12s %s%.2f\n",
				inv.ID,
				truncate(inv.InvoiceNumber, 16),
				truncate(inv.To.Name, 20),
				inv.DateDue,
				inv.Currency,
				inv.Total,
			)
		}

		fmt.Printf("\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id-or-number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := resolveInvoice(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Invoice: %s\n", inv.InvoiceNumber)
		fmt.Println(strings.Repeat("=", 80))
		fmt.Printf("Issued: %s  Due: %s\n", inv.DateIssued, inv.DateDue)
		fmt.Println()

		printParty("From", inv.From)
		printParty("To", inv.To)

		if len(inv.Items) > 0 {
			fmt.Println("Items:")
			fmt.Println(strings.Repeat("-", 80))
			fmt.Printf("%-40s %10s %12s %12s\n", "Description", "Quantity", "Unit Price", "Total")
			fmt.Println(strings.Repeat("-", 80))
			for _, item := range inv.Items {
				fmt.Printf("%-40s %10g %12.2f %12.2f\n",
					truncate(item.Description, 40),
					item.Quantity,
					item.UnitPrice,
					item.Total,
				)
			}
			fmt.Println(strings.Repeat("-", 80))
		}

		fmt.Printf("\n")
		fmt.Printf("Subtotal: %s%.2f\n", inv.Currency, inv.Subtotal)
		fmt.Printf("Tax (%g%%): %s%.2f\n", inv.TaxRate, inv.Currency, inv.TaxAmount)
		fmt.Printf("Total: %s%.2f\n", inv.Currency, inv.Total)

		if inv.Notes != "" {
			fmt.Printf("\nNotes: %s\n", inv.Notes)
		}
		if inv.Terms != "" {
			fmt.Printf("Terms: %s\n", inv.Terms)
		}
		fmt.Println(strings.Repeat("=", 80))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [id-or-number]",
	Short: "Delete a saved invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := resolveInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		if err := appInstance.Invoices.Remove(ctx, inv.ID); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Printf("✓ Deleted invoice %s\n", inv.InvoiceNumber)
		return nil
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf [id-or-number]",
	Short: "Export an invoice as a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, err := resolveInvoice(context.Background(), args[0])
		if err != nil {
			return err
		}

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = appInstance.Config.Invoice.OutputDir
		}

		path, err := pdf.WriteFile(inv, outDir)
		if err != nil {
			// Export failure never touches the saved record
			appInstance.Logger.Warn("pdf export failed", zap.Error(err))
			return fmt.Errorf("failed to export pdf: %w", err)
		}

		fmt.Printf("✓ Exported %s\n", path)
		return nil
	},
}

var logoCmd = &cobra.Command{
	Use:   "logo [id-or-number] [image-file]",
	Short: "Attach a logo image to an invoice",
	Long:  `Attach a logo to an invoice. The file must be an image and at most 1MB.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := resolveInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		dataURI, err := logo.FromFile(args[1])
		if err != nil {
			return err
		}

		updated := editor.SetField(inv, editor.FieldLogo, dataURI)
		if err := appInstance.Invoices.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		fmt.Printf("✓ Logo attached to %s\n", inv.InvoiceNumber)
		return nil
	},
}

func printParty(title string, a domain.Address) {
	fmt.Printf("%s: %s\n", title, a.Name)
	if a.Street != "" {
		fmt.Printf("  %s\n", a.Street)
	}
	cityLine := strings.Trim(strings.TrimSpace(fmt.Sprintf("%s, %s %s", a.City, a.State, a.ZipCode)), ", ")
	if cityLine != "" {
		fmt.Printf("  %s\n", cityLine)
	}
	if a.Country != "" {
		fmt.Printf("  %s\n", a.Country)
	}
	for _, f := range a.CustomFields {
		fmt.Printf("  %s: %s\n", f.Key, f.Value)
	}
	fmt.Println()
}

// resolveInvoice finds a saved invoice by id, or by invoice number as a
// fallback for the human-friendly case.
func resolveInvoice(ctx context.Context, ref string) (*domain.Invoice, error) {
	list, err := appInstance.Invoices.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	for _, inv := range list {
		if inv.ID == ref {
			return inv, nil
		}
	}
	for _, inv := range list {
		if inv.InvoiceNumber == ref {
			return inv, nil
		}
	}
	return nil, fmt.Errorf("invoice %q not found", ref)
}

// truncate shortens a string to maxLen with an ellipsis
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func init() {
	pdfCmd.Flags().String("out", "", "Output directory (defaults to the configured invoice directory)")
}
