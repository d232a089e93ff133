package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/ustabul/db"
	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/db"
	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/internal/notify"
	"github.com/garnizeh/ustabul/internal/repository/sqlite"
	"github.com/garnizeh/ustabul/internal/seed"
)

var withDemo bool

// seedCmd loads the taxonomy and, with --demo, the sample accounts and jobs
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the skill taxonomy and optional demo data",
	Long: `Load the skill taxonomy into an empty database. With --demo it also
creates sample workers, employers, jobs and ratings (password "123456").

Both steps are skipped when their data is already present.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()
		ctx := cmd.Context()

		d, err := openDB(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := db.Migrate(ctx, d, dbfs.Migrations); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}

		repo := sqlite.New(d, logger)
		svc := marketplace.New(repo, notify.New(repo, nil, logger), auth.NewIssuer(cfg.JWTSecret, cfg.TokenDuration), nil,
			marketplace.Options{JobLifetime: cfg.Marketplace.JobLifetime}, logger)

		if err := seed.New(svc, logger).All(ctx, dbfs.SeedFiles, withDemo); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Seed completed.")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&withDemo, "demo", false, "Also create demo accounts, jobs and ratings")
	rootCmd.AddCommand(seedCmd)
}
