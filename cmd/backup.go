package cmd

import (
	"context"
	"fmt"

	"github.com/Daskott/rolodex/server"
	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/spf13/cobra"
)

var restoreArg bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the rolodex db to google storage",
	Long: `Upload the encrypted sqlite db to the configured google storage bucket.
With --restore, the last uploaded copy replaces the local db instead.
Stop the server before restoring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverConfig, err := shared.LoadServerConfig(config)
		if err != nil {
			return err
		}

		storageConfig := serverConfig.Google.Storage
		if storageConfig.Bucket == "" {
			return formattedError("must set 'google.storage.bucket' in %s", config.ConfigFileUsed())
		}

		dataDir, err := server.DataDirectory(serverConfig.Rolodex.DataDir, isDevEnv)
		if err != nil {
			return err
		}

		dbFilePath, err := models.DbFilePath(dataDir)
		if err != nil {
			return err
		}

		gStorage, err := gstorage.NewGStorage(
			serverConfig.Google.ApplicationCredentials, storageConfig.Bucket, storageConfig.Prefix)
		if err != nil {
			return err
		}
		defer gStorage.Close()

		if restoreArg {
			if err = gStorage.DownloadFile(context.Background(), models.DB_NAME, dbFilePath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Restored %v from gs://%v\n", dbFilePath, storageConfig.Bucket)
			return nil
		}

		if err = gStorage.UploadFile(context.Background(), dbFilePath); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %v to gs://%v\n", dbFilePath, storageConfig.Bucket)
		return nil
	},
}

func init() {
	backupCmd.Flags().BoolVar(&restoreArg, "restore", false, "replace the local db with the uploaded copy")
	rootCmd.AddCommand(backupCmd)
}
