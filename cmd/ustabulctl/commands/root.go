package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/garnizeh/ustabul/internal/config"
	"github.com/garnizeh/ustabul/internal/db"
)

var (
	// Global flags
	configPath string
	dbPath     string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ustabulctl",
	Short: "UstaBul database administration",
	Long: `ustabulctl manages the UstaBul SQLite database.

Commands:
  migrate  - Apply pending schema migrations
  seed     - Load the skill taxonomy and optional demo accounts
  backup   - Write a consistent copy of the database
  restore  - Replace the database with a backup`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*db.DB, error) {
	d, err := db.New(ctx, cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DatabasePath, err)
	}
	return d, nil
}
