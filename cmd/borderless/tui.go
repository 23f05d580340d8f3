package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/borderless/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive dashboard",
	Long:  "Browse windows and rules in the terminal. The daemon must be running.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		return tui.Run(client)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
