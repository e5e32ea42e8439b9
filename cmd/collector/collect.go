package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/collector"
	"github.com/octobees/leads-generator/collector/internal/repository"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection and write the dataset file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.OutputPath
		}

		log := zap.L()
		pipeline, err := collector.New(ctx, cfg, log)
		if err != nil {
			return eris.Wrap(err, "build pipeline")
		}
		if query, _ := cmd.Flags().GetString("query"); query != "" {
			pipeline = pipeline.WithQuery(query)
		}

		result := pipeline.Run(ctx)

		// Partial and interrupted runs still write what they collected.
		if err := repository.WriteDataset(output, result.Records); err != nil {
			return eris.Wrapf(err, "write dataset %s", output)
		}

		log.Info("dataset written",
			zap.String("path", output),
			zap.String("outcome", string(result.Stats.Outcome)),
			zap.Int("records", len(result.Records)),
			zap.Int("dropped", result.Stats.Dropped))
		return nil
	},
}

func init() {
	collectCmd.Flags().String("output", "", "dataset path (default from OUTPUT_PATH)")
	collectCmd.Flags().String("query", "", "text query for the places search (default from SEARCH_QUERY)")
	rootCmd.AddCommand(collectCmd)
}
