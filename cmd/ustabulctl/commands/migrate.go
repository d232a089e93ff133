package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	dbfs "github.com/garnizeh/ustabul/db"
	"github.com/garnizeh/ustabul/internal/db"
)

// migrateCmd applies the embedded migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger()
		d, err := openDB(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := db.Migrate(cmd.Context(), d, dbfs.Migrations); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
