package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/application"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/domain"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/infrastructure/messaging"
	"github.com/wyfcoding/optionrisk/internal/riskgrid/infrastructure/persistence/csvfile"
	"github.com/wyfcoding/optionrisk/pkg/logger"
	"github.com/wyfcoding/optionrisk/pkg/metrics"
	"github.com/wyfcoding/optionrisk/pkg/mq"
	"github.com/wyfcoding/optionrisk/pkg/scheduler"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Compute the risk surface and write it to the flat table",
		RunE:  runGenerate,
	}
	cmd.Flags().String("output", "", "Override output.path")
	cmd.Flags().String("schedule", "", "Cron spec (e.g. \"0 30 6 * * *\" or @daily); regenerate on schedule until interrupted")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output.Path = out
	}

	expiry, err := cfg.Grid.Expiry()
	if err != nil {
		return err
	}
	start, err := cfg.Grid.Start()
	if err != nil {
		return err
	}

	var publisher domain.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := mq.NewProducer(kafkaConfig(cfg.Kafka))
		if err != nil {
			return err
		}
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
	}

	store := csvfile.NewStore(cfg.Output.Path)
	svc := application.NewSurfaceCommandService(store, publisher, metrics.New(), store.Path())
	surface := application.GenerateSurfaceCommand{
		ExpiryDate:    expiry,
		StartDate:     start,
		SpotMin:       cfg.Grid.SpotMin,
		SpotMax:       cfg.Grid.SpotMax,
		Strike:        cfg.Contract.Strike,
		Volatility:    cfg.Contract.Volatility,
		RiskFreeRate:  cfg.Contract.RiskFreeRate,
		DividendYield: cfg.Contract.DividendYield,
		OptionType:    cfg.Contract.OptionType,
		Multiplier:    cfg.Contract.Multiplier,
		Convention:    cfg.Contract.Convention,
	}

	spec, _ := cmd.Flags().GetString("schedule")
	if spec == "" {
		return generateOnce(ctx, cmd, svc, surface)
	}

	runner := scheduler.New(ctx)
	if _, err := runner.Add(spec, func(ctx context.Context) {
		if err := generateOnce(ctx, cmd, svc, surface); err != nil {
			logger.Error(ctx, "scheduled generation failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	runner.Start()
	<-ctx.Done()
	runner.Stop()
	return nil
}

func generateOnce(ctx context.Context, cmd *cobra.Command, svc *application.SurfaceCommandService, surface application.GenerateSurfaceCommand) error {
	run, err := svc.GenerateSurface(ctx, surface)
	if err != nil {
		return err
	}
	logger.Info(ctx, "risk surface generated", "run_id", run.RunID, "records", run.Records, "path", run.Path)
	fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d points, %d records written to %s in %s\n",
		run.RunID, run.Points, run.Records, run.Path, run.Duration)
	return nil
}
