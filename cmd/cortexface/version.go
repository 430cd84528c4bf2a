package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the cortexface version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cortexface v%s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
