package cmd

import (
	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/spf13/cobra"
)

var temperatureCmd = &cobra.Command{
	Use:   "temperature",
	Short: "Print the current SoC temperature as seen by the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		temperature, err := client.Temperature()
		if err != nil {
			return err
		}
		ui.Printfln("%.1f°C", temperature)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(temperatureCmd)
}
