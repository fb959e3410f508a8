package main

import (
	"fmt"

	"github.com/aretw0/upskill/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog.yaml]",
	Short: "Check a catalog for consistency",
	Long: `Loads a catalog and checks its invariants: unique question and option ids,
visibility conditions pointing at earlier choice questions, a contact form
as the last question, complete tracks and pricing for every delivery mode.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path := cfg.CatalogPath
		if len(args) > 0 {
			path = args[0]
		}

		cat, err := cli.LoadCatalog(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		if path == "" {
			path = "built-in catalog"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid! ✅ (%d questions, %d tracks)\n", path, len(cat.Questions), len(cat.Tracks))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
