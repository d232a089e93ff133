package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/garnizeh/ustabul/internal/db"
)

var backupCmd = &cobra.Command{
	Use:   "backup [target]",
	Short: "Write a consistent copy of the database",
	Long: `Write a consistent copy of the database while it may be in use.
The target defaults to <database>.bak and must not exist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dst := cfg.DatabasePath + ".bak"
		if len(args) == 1 {
			dst = args[0]
		}

		d, err := openDB(cmd.Context(), cfg, newLogger())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Backup(cmd.Context(), dst); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database backed up to %s.\n", dst)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [source]",
	Short: "Replace the database with a backup",
	Long: `Replace the database file with a backup. Stop the server first.
The source defaults to <database>.bak.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		src := cfg.DatabasePath + ".bak"
		if len(args) == 1 {
			src = args[0]
		}

		if err := db.Restore(src, cfg.DatabasePath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database restored from %s.\n", src)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(backupCmd, restoreCmd)
}
