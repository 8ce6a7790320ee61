package commands

import (
	"github.com/spf13/cobra"

	"github.com/afeibuhuifei/project-flow/database"
	"github.com/afeibuhuifei/project-flow/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.OpenAndMigrate(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer database.Close(db)

		logging.Logger.Infof("Event ID: DB_MIGRATED, Description: Schema is up to date at %s", cfg.DatabasePath)
		return nil
	},
}
