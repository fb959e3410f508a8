package main

import (
	"context"
	"fmt"

	"github.com/aretw0/upskill/internal/cli"
	"github.com/aretw0/upskill/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the question flow as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the catalog: questions in order, visibility
conditions as dotted edges, the contact form and the result.

With --session the path of a stored session is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cat, err := cli.LoadCatalog(cfg.CatalogPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(cat, nil))
			return err
		}

		ctx := context.Background()
		app, err := buildApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		state, err := app.Sessions.Load(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session %s: %w", sessionID, err)
		}
		current := 0
		if v := app.Engine.View(state); v.Question != nil {
			current = v.Question.ID
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(app.Engine.Catalog(), graph.OverlayFor(state, current)))
		return err
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Highlight the path of a stored session")
}
