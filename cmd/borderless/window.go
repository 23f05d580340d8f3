package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/output"
	"github.com/1broseidon/borderless/internal/platform"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		status, err := client.GetStatus()
		if err != nil {
			return err
		}
		return output.Print(status)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List visible titled windows",
	Long:  "List visible top-level windows with their id, title, executable name and process id, sorted by title.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		windows, err := client.ListWindows()
		if err != nil {
			return err
		}
		if windows == nil {
			windows = []borderless.DiscoveredWindow{}
		}
		return output.Print(windows)
	},
}

var applyCmd = &cobra.Command{
	Use:   "apply [window-id]",
	Short: "Make a window borderless",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args, func(t borderless.Target) (daemon.ActionResult, error) {
			client, err := newClient()
			if err != nil {
				return daemon.ActionResult{}, err
			}
			return client.Apply(t)
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [window-id]",
	Short: "Restore a borderless window to its windowed state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction(cmd, args, func(t borderless.Target) (daemon.ActionResult, error) {
			client, err := newClient()
			if err != nil {
				return daemon.ActionResult{}, err
			}
			return client.Restore(t)
		})
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle [window-id]",
	Short: "Toggle a window between windowed and borderless",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if active, _ := cmd.Flags().GetBool("active"); active {
			res, err := client.ToggleActive()
			if err != nil {
				return err
			}
			return output.Print(res)
		}
		return runAction(cmd, args, client.Toggle)
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one match-rule pass now",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		res, err := client.Reconcile()
		if err != nil {
			return err
		}
		return output.Print(res)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, listCmd, applyCmd, restoreCmd, toggleCmd, reconcileCmd)
	for _, c := range []*cobra.Command{applyCmd, restoreCmd, toggleCmd} {
		addTargetFlags(c)
	}
	toggleCmd.Flags().Bool("active", false, "Toggle the foreground window")
}

func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Select the first window with this exact title")
	cmd.Flags().String("exe", "", "Select the first window of this executable, e.g. game.exe")
}

func runAction(cmd *cobra.Command, args []string, op func(borderless.Target) (daemon.ActionResult, error)) error {
	title, _ := cmd.Flags().GetString("title")
	exe, _ := cmd.Flags().GetString("exe")
	target, err := parseTarget(args, title, exe)
	if err != nil {
		return err
	}
	res, err := op(target)
	if err != nil {
		return err
	}
	return output.Print(res)
}

// parseTarget builds a Target from a positional window id or one of the
// selector flags. Exactly one must be given.
func parseTarget(args []string, title, exe string) (borderless.Target, error) {
	var target borderless.Target
	given := 0
	if len(args) > 0 {
		id, err := parseWindowID(args[0])
		if err != nil {
			return target, err
		}
		target.ID = id
		given++
	}
	if title != "" {
		target.Title = title
		given++
	}
	if exe != "" {
		target.ImageName = exe
		given++
	}
	switch given {
	case 0:
		return target, fmt.Errorf("specify a window id, --title or --exe")
	case 1:
		return target, nil
	}
	return borderless.Target{}, fmt.Errorf("specify only one of window id, --title or --exe")
}

// parseWindowID accepts decimal or 0x-prefixed hex.
func parseWindowID(s string) (platform.WindowID, error) {
	id, err := strconv.ParseUint(s, 0, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return platform.WindowID(id), nil
}
