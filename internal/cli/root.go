package cli

import (
	"github.com/spf13/cobra"

	"github.com/mabel/billfold/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "billfold",
	Short: "A terminal invoice builder",
	Long: `Billfold builds invoices: fill in the billing parties and line items,
watch the live preview, export a PDF, and reload recently saved invoices.

By default, running billfold without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior: launch TUI
		launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(logoCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(tuiCmd)
}
