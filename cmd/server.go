package cmd

import (
	"github.com/Daskott/rolodex/server"
	"github.com/spf13/cobra"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a rolodex server",
	Long: `Serve the rolodex API: contacts, groups & their edit forms, phones,
emails and avatars. Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(config, isDevEnv)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
