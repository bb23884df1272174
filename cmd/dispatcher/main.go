// cmd/dispatcher/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lead-dispatcher/internal/common/config"
	"lead-dispatcher/internal/common/logger"
)

const skipConfigAnnotation = "skip-config"

var (
	configPath string
	cfg        *config.Config
	zapLog     = zap.NewNop()
	log        = logger.NewNoOpLogger()
)

var rootCmd = &cobra.Command{
	Use:           "dispatcher",
	Short:         "Voice-AI call report to lead dossier dispatcher",
	Long:          "Receives end-of-call reports from the voice platform, filters ghost and low-detail calls, renders a dossier and emails it to the routed recipients.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			return nil
		}

		c, err := loadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		zapLog = logger.FromConfig(cfg.Logging, cfg.App)
		log = logger.NewZapAdapter(zapLog)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zapLog.Sync()
	},
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default configs/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
