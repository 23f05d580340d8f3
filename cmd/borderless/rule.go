package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/output"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage match rules that keep windows borderless",
}

var ruleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List match rules in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		rules, err := client.Rules()
		if err != nil {
			return err
		}
		return output.Print(ruleEntries(rules))
	},
}

var ruleAddCmd = &cobra.Command{
	Use:   "add <pattern>",
	Short: "Add a match rule",
	Long:  "Add a rule that makes the first window matching pattern borderless whenever it is open.\nPatterns match exactly and are case sensitive.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := modeFlag(cmd)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		index, err := client.AddRule(args[0], mode)
		if err != nil {
			return err
		}
		return output.Print(map[string]int{"index": index})
	},
}

var ruleRemoveCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove a match rule, restoring the window it holds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		removed, err := client.RemoveRule(index)
		if err != nil {
			return err
		}
		return output.Print(newRuleEntry(index, removed))
	},
}

var ruleModeCmd = &cobra.Command{
	Use:   "mode <index> <pattern>",
	Short: "Change how a rule matches",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}
		mode, err := modeFlag(cmd)
		if err != nil {
			return err
		}
		client, err := newClient()
		if err != nil {
			return err
		}
		return client.SetRuleMode(index, mode, args[1])
	},
}

func init() {
	rootCmd.AddCommand(ruleCmd)
	ruleCmd.AddCommand(ruleListCmd, ruleAddCmd, ruleRemoveCmd, ruleModeCmd)
	for _, c := range []*cobra.Command{ruleAddCmd, ruleModeCmd} {
		c.Flags().String("mode", "title", "Match on: title or exe")
	}
}

func modeFlag(cmd *cobra.Command) (borderless.MatchMode, error) {
	s, _ := cmd.Flags().GetString("mode")
	return borderless.ParseMatchMode(s)
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid rule index %q", s)
	}
	return index, nil
}

// ruleEntry is the printed form of a rule.
type ruleEntry struct {
	Index      int    `yaml:"index" json:"index"`
	Mode       string `yaml:"mode" json:"mode"`
	Pattern    string `yaml:"pattern" json:"pattern"`
	Fullscreen bool   `yaml:"fullscreen" json:"fullscreen"`
	Window     string `yaml:"window,omitempty" json:"window,omitempty"`
	Suspended  string `yaml:"suspended,omitempty" json:"suspended,omitempty"`
}

func newRuleEntry(index int, r borderless.MatchRule) ruleEntry {
	e := ruleEntry{Index: index, Mode: r.Mode.String(), Pattern: r.Pattern, Fullscreen: r.Fullscreen}
	if r.Fullscreen && r.Saved != nil {
		e.Window = fmt.Sprintf("0x%x", uint64(r.Saved.Window))
	}
	if r.Suspended != 0 {
		e.Suspended = fmt.Sprintf("0x%x", uint64(r.Suspended))
	}
	return e
}

func ruleEntries(rules []borderless.MatchRule) []ruleEntry {
	entries := make([]ruleEntry, 0, len(rules))
	for i, r := range rules {
		entries = append(entries, newRuleEntry(i, r))
	}
	return entries
}
