package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"durak.dev/arrivals"
	"durak.dev/arrivals/config"
)

var rootCmd = &cobra.Command{
	Use:          "durak",
	Short:        "Istanbul bus stop arrival tool",
	Long:         "Resolves approaching buses for IETT stops via API, scraping and static data",
	SilenceUsage: true,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(stopsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func buildPipeline() (*arrivals.Pipeline, *slog.Logger, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := arrivals.NewLogger(os.Stderr, level)

	return arrivals.NewPipeline(cfg, logger), logger, nil
}
