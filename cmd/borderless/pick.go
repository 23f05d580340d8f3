package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/ipc"
	"github.com/1broseidon/borderless/internal/output"
	"github.com/1broseidon/borderless/internal/palette"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Pick a window from a launcher menu",
	Long: `Show the window list in rofi, fuzzel, wofi or dmenu.

Enter toggles the picked window. With rofi, Alt+Return adds a title rule
for it and Alt+e adds an executable rule.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("launcher")
		backend, err := palette.NewBackend(name)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}

		windows, err := client.ListWindows()
		if err != nil {
			return err
		}
		status, err := client.GetStatus()
		if err != nil {
			return err
		}
		rules, err := client.Rules()
		if err != nil {
			return err
		}

		held := borderless.HeldWindows(status.Tracked, rules)
		choice, err := palette.PickWindow(backend, windows, held)
		if errors.Is(err, palette.ErrCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		return runChoice(client, choice)
	},
}

func init() {
	rootCmd.AddCommand(pickCmd)
	pickCmd.Flags().String("launcher", "auto", "Launcher to use: auto, rofi, fuzzel, wofi or dmenu")
}

func runChoice(client *ipc.Client, choice palette.Choice) error {
	switch choice.Action {
	case palette.ActionRuleTitle, palette.ActionRuleExe:
		mode, pattern := borderless.MatchTitle, choice.Window.Title
		if choice.Action == palette.ActionRuleExe {
			mode, pattern = borderless.MatchImageName, choice.Window.ImageName
		}
		index, err := client.AddRule(pattern, mode)
		if err != nil {
			return err
		}
		if _, err := client.Reconcile(); err != nil {
			return err
		}
		return output.Print(ipc.AddRuleData{Index: index})
	}
	res, err := client.Toggle(borderless.Target{ID: choice.Window.ID})
	if err != nil {
		return err
	}
	return output.Print(res)
}
