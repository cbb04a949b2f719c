package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/optionrisk/internal/portfolio/application"
	"github.com/wyfcoding/optionrisk/internal/portfolio/domain"
	"github.com/wyfcoding/optionrisk/internal/portfolio/infrastructure/persistence"
)

func newTopAssetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "top-assets",
		Short: "Print the assets with the largest summed option present value",
		RunE:  runTopAssets,
	}
	cmd.Flags().Int("n", 5, "Number of assets to return")
	return cmd
}

func runTopAssets(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, err := cmd.Flags().GetInt("n")
	if err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: n must be at least 1, got %d", domain.ErrInvalidInput, n)
	}

	conn, err := persistence.Open(dbConfig(cfg.Database))
	if err != nil {
		return err
	}
	defer conn.Close()

	svc := application.NewPortfolioQueryService(persistence.NewPortfolioRepository(conn.DB))
	assets, err := svc.TopAssets(cmd.Context(), n)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tASSET\tTICKER\tPRESENT VALUE")
	for _, a := range assets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\n", a.AssetID, a.AssetName, a.Ticker, a.TotalPresentValue)
	}
	return w.Flush()
}
