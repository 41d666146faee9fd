package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/panicdrop/altscan/internal/config"
	"github.com/panicdrop/altscan/internal/journal"
)

// openJournal picks the store: postgres when a DSN is configured,
// otherwise in-memory. The memory store does not survive the process,
// which makes most journal subcommands useful only with a database.
func openJournal() (journal.Store, func(), error) {
	if cfg.Journal.DSN == "" {
		log.Warn().Msgf("%s not set, journal is in-memory and not persisted", config.EnvJournalDSN)
		return journal.NewMemoryStore(), func() {}, nil
	}
	store, err := journal.NewPostgresStore(cfg.Journal.DSN, cfg.Journal.Timeout)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { store.Shutdown() }, nil
}

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record trades and review performance statistics",
	}
	cmd.AddCommand(newJournalAddCmd())
	cmd.AddCommand(newJournalCloseCmd())
	cmd.AddCommand(newJournalListCmd())
	cmd.AddCommand(newJournalStatsCmd())
	cmd.AddCommand(newJournalDeleteCmd())
	return cmd
}

func newJournalAddCmd() *cobra.Command {
	trade := journal.Trade{Side: journal.SideLong}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new trade entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openJournal()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Insert(cmd.Context(), &trade); err != nil {
				return err
			}
			fmt.Printf("Recorded trade #%d: %s %s %.4f @ %.6f\n",
				trade.ID, trade.Side, trade.Symbol, trade.Quantity, trade.EntryPrice)
			return nil
		},
	}

	cmd.Flags().StringVar(&trade.Symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&trade.Side, "side", journal.SideLong, "long or short")
	cmd.Flags().Float64Var(&trade.Quantity, "qty", 0, "position size in tokens")
	cmd.Flags().Float64Var(&trade.EntryPrice, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&trade.StopLoss, "stop", 0, "stop loss price")
	cmd.Flags().StringVar(&trade.Notes, "notes", "", "free-form notes")
	cmd.MarkFlagRequired("symbol")
	cmd.MarkFlagRequired("qty")
	cmd.MarkFlagRequired("entry")

	return cmd
}

func newJournalCloseCmd() *cobra.Command {
	var (
		id        int64
		exitPrice float64
	)

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close an open trade at an exit price",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openJournal()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Close(cmd.Context(), id, exitPrice, time.Now().UTC()); err != nil {
				return err
			}
			trade, err := store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("Closed trade #%d: PnL $%.2f", id, trade.PnL())
			if r, ok := trade.RMultiple(); ok {
				fmt.Printf(" (%.2fR)", r)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "trade ID")
	cmd.Flags().Float64Var(&exitPrice, "exit", 0, "exit price")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("exit")

	return cmd
}

func newJournalListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent trades, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openJournal()
			if err != nil {
				return err
			}
			defer closeStore()

			trades, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(trades) == 0 {
				fmt.Println("No trades recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSYMBOL\tSIDE\tQTY\tENTRY\tSTOP\tEXIT\tPNL\tOPENED")
			for _, t := range trades {
				exit := "-"
				pnl := "-"
				if t.Closed() {
					exit = fmt.Sprintf("%.6g", t.ExitPrice)
					pnl = fmt.Sprintf("%.2f", t.PnL())
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%.4f\t%.6g\t%.6g\t%s\t%s\t%s\n",
					t.ID, t.Symbol, t.Side, t.Quantity, t.EntryPrice, t.StopLoss,
					exit, pnl, t.OpenedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "maximum trades to show")
	return cmd
}

func newJournalStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize performance over closed trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openJournal()
			if err != nil {
				return err
			}
			defer closeStore()

			trades, err := store.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			stats := journal.ComputeStats(trades)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}

			fmt.Printf("Trades:        %d total, %d open, %d closed\n",
				stats.TotalTrades, stats.OpenTrades, stats.ClosedTrades)
			if stats.ClosedTrades == 0 {
				return nil
			}
			fmt.Printf("Win rate:      %.1f%% (%d W / %d L)\n",
				stats.WinRate*100, stats.Wins, stats.Losses)
			fmt.Printf("Net PnL:       $%.2f\n", stats.NetPnL)
			fmt.Printf("Expectancy:    $%.2f per trade\n", stats.Expectancy)
			if stats.ProfitFactor > 0 {
				fmt.Printf("Profit factor: %.2f\n", stats.ProfitFactor)
			}
			fmt.Printf("R-multiples:   avg %.2f, best %.2f, worst %.2f\n",
				stats.AvgR, stats.BestR, stats.WorstR)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
	return cmd
}

func newJournalDeleteCmd() *cobra.Command {
	var id int64

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a trade by ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openJournal()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted trade #%d\n", id)
			return nil
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "trade ID")
	cmd.MarkFlagRequired("id")
	return cmd
}
