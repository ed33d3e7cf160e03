package fan

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "fan",
	Short: "Fan related commands",
}
