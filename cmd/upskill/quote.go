package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/upskill"
	"github.com/aretw0/upskill/internal/cli"
	"github.com/aretw0/upskill/internal/presentation/quote"
	"github.com/aretw0/upskill/pkg/domain"
	"github.com/spf13/cobra"
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a training track",
	Long:  `Computes the itemized quote of a track for a team size and delivery mode, without running the assessment.`,
	Example: `  upskill quote --track engineer --team-size 12
  upskill quote --track data --delivery hybrid --team-size 25 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := cli.LoadCatalog(cfg.CatalogPath)
		if err != nil {
			return err
		}
		eng, err := upskill.New(upskill.WithCatalog(cat), upskill.WithLogger(logger))
		if err != nil {
			return err
		}

		track, _ := cmd.Flags().GetString("track")
		delivery, _ := cmd.Flags().GetString("delivery")
		teamSize, _ := cmd.Flags().GetInt("team-size")
		if err := cat.CheckTeamSize(teamSize); err != nil {
			return err
		}

		q, err := eng.Quote(domain.Track(track), domain.DeliveryMode(delivery), teamSize)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				domain.QuoteBreakdown
				LineItems []domain.LineItem `json:"line_items"`
			}{q, q.LineItems()})
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if plain || !isTerminal() {
			_, err := fmt.Fprint(out, quote.Plain(cat.Currency, q))
			return err
		}
		render, err := quote.NewRenderer("", 80)
		if err != nil {
			return err
		}
		rendered, err := render(quote.Table(cat.Currency, q))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	},
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().String("track", "", "Track to price: beginner, engineer, data")
	quoteCmd.Flags().String("delivery", string(domain.DeliveryRemote), "Delivery mode: remote, our_location, their_office, hybrid")
	quoteCmd.Flags().Int("team-size", 0, "Number of participants")
	quoteCmd.Flags().Bool("json", false, "Print the quote as JSON")
	quoteCmd.Flags().Bool("plain", false, "Print a plain text table")
	_ = quoteCmd.MarkFlagRequired("track")
	_ = quoteCmd.MarkFlagRequired("team-size")
}
