package fan

import (
	"fmt"
	"strconv"

	"github.com/clusterhack/argononed/internal/api"
	"github.com/spf13/cobra"
)

var setSpeedCmd = &cobra.Command{
	Use:   "setSpeed",
	Short: "Set the fan speed to the given value ([0..100])",
	Long: `Sets a manual fan speed. Note that the daemon will overwrite this value
on its next tick unless automatic fan control is disabled, see 'fan mode'.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid fan speed '%s': %w", args[0], err)
		}

		client, err := api.NewClient()
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		return client.SetFanSpeed(speed)
	},
}

func init() {
	Command.AddCommand(setSpeedCmd)
}
