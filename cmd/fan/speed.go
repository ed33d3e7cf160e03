package fan

import (
	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/spf13/cobra"
)

var speedCmd = &cobra.Command{
	Use:   "speed",
	Short: "Print the current fan speed in percent",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		speed, err := client.FanSpeed()
		if err != nil {
			return err
		}
		ui.Printfln("%d", speed)
		return nil
	},
}

func init() {
	Command.AddCommand(speedCmd)
}
