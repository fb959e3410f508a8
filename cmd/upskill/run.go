package main

import (
	"context"

	"github.com/aretw0/upskill/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive assessment",
	Long: `Starts the assessment wizard in the terminal.

With --session the progress is stored after every answer and the same
command resumes it later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigCtx, cancel := cli.SignalContext(context.Background())
		defer cancel()

		app, err := buildApp(sigCtx, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		sessionID, _ := cmd.Flags().GetString("session")
		fresh, _ := cmd.Flags().GetBool("fresh")
		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		style, _ := cmd.Flags().GetString("style")

		return cli.RunWizard(sigCtx, app, cli.RunOptions{
			SessionID: sessionID,
			Fresh:     fresh,
			JSON:      jsonMode,
			Plain:     plain,
			Style:     style,
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session ID to resume or create")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	runCmd.Flags().Bool("plain", false, "Print Markdown without terminal styling")
	runCmd.Flags().String("style", "", "Glamour style (dark, light, notty); auto-detected when empty")

	// 'run' is the default command.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
