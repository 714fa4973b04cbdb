// Command wildsim runs the wildlife simulation with its population limit and
// manages the limit setting stored in the world database.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/wildlife-control/internal/config"
)

var (
	configPath string
	envFile    string
	dbOverride string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wildsim",
	Short: "Wildlife simulation with a per-map wild animal population limit.",
	Long: `wildsim simulates wild animal herds across a handful of maps and keeps ` +
		`each map's wild population under a configurable limit, culling the ` +
		`least fit animals of the most common species first.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "wildsim.yaml", "YAML config file (optional)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before WILDSIM_* overrides (optional)")
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "world database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(settingsCmd)
}

// loadConfig resolves the configuration and installs the default logger.
func loadConfig() (config.Config, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ApplyEnv(envFile); err != nil {
		return cfg, err
	}
	if dbOverride != "" {
		cfg.DBPath = dbOverride
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
