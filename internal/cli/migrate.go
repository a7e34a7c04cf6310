package cli

import (
	"log"

	"servimarket/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		if err := database.RunMigrations(db, cfg.DatabaseURL); err != nil {
			return err
		}
		if database.IsPostgresDSN(cfg.DatabaseURL) {
			version, dirty, err := database.MigrationVersion(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			log.Printf("migration version=%d dirty=%t", version, dirty)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
