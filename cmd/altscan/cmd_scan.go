package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/panicdrop/altscan/internal/domain"
	"github.com/panicdrop/altscan/internal/telemetry"
)

func newScanCmd() *cobra.Command {
	var (
		topN      int
		category  string
		capBucket string
		noStables bool
		noMemes   bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Run one scan cycle and print the ranked tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := telemetry.NewMetrics()
			sc, err := buildScanner(cfg, metrics)
			if err != nil {
				return err
			}

			result, err := sc.Refresh(cmd.Context())
			if err != nil {
				return err
			}

			bucket, err := domain.ParseBucket(capBucket)
			if err != nil {
				return err
			}
			criteria := domain.FilterCriteria{
				Category:           category,
				Bucket:             bucket,
				ExcludeStablecoins: noStables,
				ExcludeMemecoins:   noMemes,
			}

			ranked, err := sc.ApplyFilters(criteria, topN)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"scan":   result,
					"tokens": ranked.Tokens,
				})
			}

			printTokenTable(ranked.Tokens)
			if result.SampleData {
				fmt.Println("\nNote: market data unavailable, showing sample listings.")
			}
			if ranked.Insufficient {
				fmt.Printf("\nNote: only %d of %d requested tokens matched the filters.\n",
					len(ranked.Tokens), ranked.Requested)
			}
			fmt.Printf("\nScanned %d tokens in %s (%d enriched, %d fallback).\n",
				result.TotalTokens, result.Duration.Round(time.Millisecond),
				result.Enriched, result.FallbackScored)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 0, "number of tokens to show (default from config)")
	cmd.Flags().StringVar(&category, "category", "all", "category filter (all, meme, l1, l2, defi, gaming, stablecoin, crypto)")
	cmd.Flags().StringVar(&capBucket, "cap", "all", "market cap bucket (all, large, mid, small, micro)")
	cmd.Flags().BoolVar(&noStables, "no-stables", false, "exclude stablecoins")
	cmd.Flags().BoolVar(&noMemes, "no-memes", false, "exclude memecoins")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")

	return cmd
}

func printTokenTable(tokens []domain.Token) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSYMBOL\tNAME\tPRICE\t24H\tMCAP\tCATEGORY\tSCORE\tAI")
	for i, t := range tokens {
		ai := "-"
		if t.HasAIData {
			ai = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%.0f\t%s\n",
			i+1, t.Symbol, t.Name, t.PriceDisplay, t.ChangeDisplay,
			t.MarketCapDisplay, t.Category, t.TotalScore, ai)
	}
	w.Flush()
}
