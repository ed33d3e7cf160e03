package power

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "power",
	Short:            "Power button control",
	TraverseChildren: true,
}
