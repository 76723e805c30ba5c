package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mabel/billfold/internal/domain"
	"github.com/mabel/billfold/internal/editor"
)

// scalarFields maps CLI field names onto the editor's closed field set.
// Derived values (subtotal, tax amount, total) have no entry on purpose.
var scalarFields = map[string]editor.Field{
	"number":      editor.FieldInvoiceNumber,
	"date-issued": editor.FieldDateIssued,
	"date-due":    editor.FieldDateDue,
	"notes":       editor.FieldNotes,
	"terms":       editor.FieldTerms,
	"currency":    editor.FieldCurrency,
}

var addressFields = map[string]editor.AddressField{
	"name":    editor.AddrName,
	"street":  editor.AddrStreet,
	"city":    editor.AddrCity,
	"state":   editor.AddrState,
	"zip":     editor.AddrZipCode,
	"country": editor.AddrCountry,
	"email":   editor.AddrEmail,
	"phone":   editor.AddrPhone,
}

var setCmd = &cobra.Command{
	Use:   "set [id-or-number] [field] [value]",
	Short: "Set an invoice field",
	Long: `Set a non-derived invoice field and save the result.

Fields: number, date-issued, date-due, notes, terms, currency, tax-rate,
and address fields as from.<f> or to.<f> where <f> is one of
name, street, city, state, zip, country, email, phone.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := resolveInvoice(ctx, args[0])
		if err != nil {
			return err
		}
		name, value := args[1], args[2]

		var updated *domain.Invoice
		switch {
		case name == "tax-rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil || rate < 0 {
				return fmt.Errorf("invalid tax rate %q", value)
			}
			updated = editor.SetTaxRate(inv, rate)

		case strings.HasPrefix(name, "from.") || strings.HasPrefix(name, "to."):
			sideStr, fieldStr, _ := strings.Cut(name, ".")
			field, ok := addressFields[fieldStr]
			if !ok {
				return fmt.Errorf("unknown address field %q", fieldStr)
			}
			side := domain.SideFrom
			if sideStr == "to" {
				side = domain.SideTo
			}
			updated = editor.SetAddressField(inv, side, field, value)

		default:
			field, ok := scalarFields[name]
			if !ok {
				return fmt.Errorf("unknown field %q", name)
			}
			updated = editor.SetField(inv, field, value)
		}

		if err := appInstance.Invoices.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		fmt.Printf("✓ Set %s on %s\n", name, updated.InvoiceNumber)
		if name == "tax-rate" {
			fmt.Printf("  Tax: %s%.2f  Total: %s%.2f\n",
				updated.Currency, updated.TaxAmount, updated.Currency, updated.Total)
		}
		return nil
	},
}

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Manage invoice line items",
}

var itemsAddCmd = &cobra.Command{
	Use:   "add [id-or-number]",
	Short: "Add a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := resolveInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		updated := editor.AddItem(inv)
		item := updated.Items[len(updated.Items)-1]

		desc, _ := cmd.Flags().GetString("desc")
		qty, _ := cmd.Flags().GetFloat64("qty")
		price, _ := cmd.Flags().GetFloat64("price")
		updated = editor.UpdateItem(updated, item.ID, editor.ItemPatch{
			Description: &desc,
			Quantity:    &qty,
			UnitPrice:   &price,
		})

		if err := appInstance.Invoices.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		fmt.Printf("✓ Added item %s\n", item.ID)
		printTotals(updated)
		return nil
	},
}

var itemsUpdateCmd = &cobra.Command{
	Use:   "update [id-or-number] [item-id]",
	Short: "Update a line item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := resolveInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		var patch editor.ItemPatch
		if cmd.Flags().Changed("desc") {
			desc, _ := cmd.Flags().GetString("desc")
			patch.Description = &desc
		}
		if cmd.Flags().Changed("qty") {
			qty, _ := cmd.Flags().GetFloat64("qty")
			patch.Quantity = &qty
		}
		if cmd.Flags().Changed("price") {
			price, _ := cmd.Flags().GetFloat64("price")
			patch.UnitPrice = &price
		}

		updated := editor.UpdateItem(inv, args[1], patch)
		if updated == inv {
			return fmt.Errorf("item %q not found on invoice %s", args[1], inv.InvoiceNumber)
		}

		if err := appInstance.Invoices.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		fmt.Printf("✓ Updated item %s\n", args[1])
		printTotals(updated)
		return nil
	},
}

var itemsRemoveCmd = &cobra.Command{
	Use:   "remove [id-or-number] [item-id]",
	Short: "Remove a line item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := resolveInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		updated := editor.RemoveItem(inv, args[1])
		if updated == inv {
			return fmt.Errorf("item %q not found on invoice %s", args[1], inv.InvoiceNumber)
		}

		if err := appInstance.Invoices.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}

		fmt.Printf("✓ Removed item %s\n", args[1])
		printTotals(updated)
		return nil
	},
}

func printTotals(inv *domain.Invoice) {
	fmt.Printf("  Subtotal: %s%.2f\n", inv.Currency, inv.Subtotal)
	fmt.Printf("  Tax: %s%.2f\n", inv.Currency, inv.TaxAmount)
	fmt.Printf("  Total: %s%.2f\n", inv.Currency, inv.Total)
}

func init() {
	itemsCmd.AddCommand(itemsAddCmd)
	itemsCmd.AddCommand(itemsUpdateCmd)
	itemsCmd.AddCommand(itemsRemoveCmd)

	itemsAddCmd.Flags().String("desc", "", "Item description")
	itemsAddCmd.Flags().Float64("qty", 1, "Quantity")
	itemsAddCmd.Flags().Float64("price", 0, "Unit price")

	itemsUpdateCmd.Flags().String("desc", "", "Item description")
	itemsUpdateCmd.Flags().Float64("qty", 0, "Quantity")
	itemsUpdateCmd.Flags().Float64("price", 0, "Unit price")
}
