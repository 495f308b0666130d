package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/imoveis-cli/internal/config"
)

var (
	cfg      *config.Config
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "imoveis-cli",
	Short: "Auction real-estate listing feed reader",
	Long:  "Downloads the public auction property feed per region, normalizes and enriches each listing, then filters, ranks, exports or serves the result.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		_, dotenvErr := os.Stat(".env")
		zap.L().Debug("config loaded",
			zap.String("command", cmd.Name()),
			zap.String("feed_base_url", cfg.Feed.BaseURL),
			zap.String("charset", cfg.Feed.Charset),
			zap.Duration("timeout", cfg.Feed.Timeout()),
			zap.Int("max_mb", cfg.Feed.MaxMB),
			zap.Bool("dotenv", dotenvErr == nil),
		)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
