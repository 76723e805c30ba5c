package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import the whole store as JSON",
}

var backupExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every stored key/value pair to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		pairs, err := appInstance.Store.Dump(ctx)
		if err != nil {
			return fmt.Errorf("failed to export store: %w", err)
		}

		data, err := json.MarshalIndent(pairs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize backup: %w", err)
		}
		if err := os.WriteFile(args[0], data, 0600); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}

		fmt.Printf("✓ Exported %d key(s) to %s\n", len(pairs), args[0])
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the store contents from a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read backup: %w", err)
		}

		var pairs map[string]string
		if err := json.Unmarshal(data, &pairs); err != nil {
			return fmt.Errorf("backup file is not valid JSON: %w", err)
		}

		if err := appInstance.Store.Restore(ctx, pairs); err != nil {
			return fmt.Errorf("failed to import store: %w", err)
		}

		fmt.Printf("✓ Imported %d key(s) from %s\n", len(pairs), args[0])
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
}
