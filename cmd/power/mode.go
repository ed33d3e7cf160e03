package power

import (
	"fmt"

	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [on|off]",
	Short: "Get or set power button handling",
	Long: `Without an argument, prints whether the daemon acts on power button
pulses. With 'on' or 'off', enables or disables it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		if len(args) <= 0 {
			enabled, err := client.PowerControlEnabled()
			if err != nil {
				return err
			}
			if enabled {
				ui.Printfln("on")
			} else {
				ui.Printfln("off")
			}
			return nil
		}

		switch args[0] {
		case "on":
			return client.SetPowerControlEnabled(true)
		case "off":
			return client.SetPowerControlEnabled(false)
		default:
			return fmt.Errorf("unknown power mode '%s', use one of: on | off", args[0])
		}
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
