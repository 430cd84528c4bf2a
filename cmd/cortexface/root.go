package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "cortexface",
	Short: "Glowing robot eyes for a wall-mounted screen",
	Long: `cortexface draws an animated robot face and changes its expression on
command. A brain process connects over TCP and sends newline-delimited
JSON; the face answers every line and keeps animating on its own.

Run the face:            cortexface
Change its expression:   cortexface send change_state thinking
Ask how it is doing:     cortexface send get_status`,
	RunE:          runFace,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.cortexface/config.yaml)")
}
