package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/panicdrop/altscan/internal/domain"
	"github.com/panicdrop/altscan/internal/position"
)

func newPositionCmd() *cobra.Command {
	var (
		in     position.Input
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "position",
		Short: "Size a position from portfolio value, risk and stop distance",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := position.Calculate(in)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Printf("Risk amount:    $%s (%.2f%% of $%s)\n",
				domain.FormatPrice(res.RiskAmountUSD), in.RiskPercent,
				domain.FormatPrice(in.PortfolioUSD))
			fmt.Printf("Risk per token: $%s\n", domain.FormatPrice(res.RiskPerToken))
			fmt.Printf("Position size:  %.4f tokens\n", res.PositionSize)
			fmt.Printf("Investment:     $%s\n", domain.FormatPrice(res.InvestmentUSD))
			fmt.Printf("3R target:      $%s\n", domain.FormatPrice(res.ThreeRTarget))
			if res.HasTarget {
				fmt.Printf("Reward at TP:   $%s (%.2f:1 reward/risk)\n",
					domain.FormatPrice(res.RewardUSD), res.RewardRisk)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&in.PortfolioUSD, "portfolio", 0, "portfolio value in USD")
	cmd.Flags().Float64Var(&in.RiskPercent, "risk", 1, "percent of portfolio to risk")
	cmd.Flags().Float64Var(&in.EntryPrice, "entry", 0, "entry price")
	cmd.Flags().Float64Var(&in.StopLoss, "stop", 0, "stop loss price")
	cmd.Flags().Float64Var(&in.TakeProfit, "target", 0, "optional take profit price")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of text")
	cmd.MarkFlagRequired("portfolio")
	cmd.MarkFlagRequired("entry")
	cmd.MarkFlagRequired("stop")

	return cmd
}
