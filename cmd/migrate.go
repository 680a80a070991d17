package cmd

import (
	"fmt"

	"github.com/Daskott/rolodex/server"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the rolodex db schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		serverConfig, err := shared.LoadServerConfig(config)
		if err != nil {
			return err
		}

		dataDir, err := server.DataDirectory(serverConfig.Rolodex.DataDir, isDevEnv)
		if err != nil {
			return err
		}

		db, err := models.OpenDB(serverConfig.Sqlite.PassPhrase, dataDir, isDevEnv)
		if err != nil {
			return err
		}

		if err = models.AutoMigrate(db); err != nil {
			return err
		}

		dbFilePath, err := models.DbFilePath(dataDir)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Migrated", dbFilePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
