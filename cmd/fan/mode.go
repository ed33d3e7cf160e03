package fan

import (
	"fmt"

	"github.com/clusterhack/argononed/internal/api"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode [auto|manual]",
	Short: "Get or set the fan control mode",
	Long: `Without an argument, prints whether the daemon controls the fan
automatically. With 'auto' or 'manual', switches the mode.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		if len(args) <= 0 {
			enabled, err := client.FanControlEnabled()
			if err != nil {
				return err
			}
			if enabled {
				ui.Printfln("auto")
			} else {
				ui.Printfln("manual")
			}
			return nil
		}

		switch args[0] {
		case "auto":
			return client.SetFanControlEnabled(true)
		case "manual":
			return client.SetFanControlEnabled(false)
		default:
			return fmt.Errorf("unknown fan mode '%s', use one of: auto | manual", args[0])
		}
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
