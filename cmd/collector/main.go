package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/octobees/leads-generator/collector/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "collector",
	Short: "Collects restaurant listings for one locality",
	Long: "Searches the places provider for a locality, resolves listing details, looks up " +
		"social profiles, classifies each business by review volume and writes a JSON dataset. " +
		"The serve command exposes the dataset over HTTP and can trigger new runs.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
