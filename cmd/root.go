package cmd

import (
	"fmt"
	"os"

	"github.com/clusterhack/argononed/cmd/fan"
	"github.com/clusterhack/argononed/cmd/global"
	"github.com/clusterhack/argononed/cmd/power"
	"github.com/clusterhack/argononed/internal"
	"github.com/clusterhack/argononed/internal/configuration"
	"github.com/clusterhack/argononed/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "argononed",
	Short: "A daemon to control the fan and power button of the Argon ONE case.",
	Long: `argononed controls the cooling fan of an Argon ONE Raspberry Pi case
based on the SoC temperature and translates power button pulses into
system shutdown or reboot. State is exposed on the system D-Bus.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		setupUi()

		configPath := configuration.DetectAndReadConfigFile()
		if configPath != "" {
			ui.Info("Using configuration file at: %s", configPath)
		} else {
			ui.Info("No configuration file found, using defaults")
		}
		configuration.LoadConfig()
		err := configuration.Validate()
		if err != nil {
			ui.Fatal("Config validation error: %s", err.Error())
		}

		internal.RunDaemon()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is /etc/argonone/argonone.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(power.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.OnInitialize(func() {
		configuration.InitConfig(global.CfgFile)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
