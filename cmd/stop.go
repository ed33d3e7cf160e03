package cmd

import (
	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running argononed daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		if err := client.Shutdown(); err != nil {
			return err
		}
		ui.Info("Daemon stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
