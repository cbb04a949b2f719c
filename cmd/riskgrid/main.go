package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	appName = "riskgrid"
	version = "v0.3.0"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Option risk surface batch and query service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `riskgrid precomputes Black-Scholes risk surfaces (delta, gamma, theta, vega, value)
over a grid of evaluation dates and spot prices, writes them to a flat CSV table and serves
them over HTTP as series, wide tables, snapshot diffs and charts.`,
	}
	rootCmd.PersistentFlags().String("config", "configs/riskgrid.toml", "Path to TOML config file")

	rootCmd.AddCommand(newGenerateCmd(), newServeCmd(), newTopAssetsCmd())
	return rootCmd
}
