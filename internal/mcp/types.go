package mcp

import (
	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/platform"
)

// TargetInput selects a window. Exactly one field should be set.
type TargetInput struct {
	ID        uint64 `json:"id,omitempty" jsonschema:"Window handle as reported by list_windows"`
	Title     string `json:"title,omitempty" jsonschema:"Exact, case-sensitive window title"`
	ImageName string `json:"image_name,omitempty" jsonschema:"Exact, case-sensitive executable name such as game.exe"`
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []borderless.DiscoveredWindow `json:"windows"`
}

// ActionOutput is the output for the apply, restore and toggle tools.
type ActionOutput struct {
	Window     uint64 `json:"window"`
	Changed    bool   `json:"changed"`
	Borderless bool   `json:"borderless"`
}

// StatusInput is the input for the get_status tool.
type StatusInput struct{}

// StatusOutput is the output for the get_status tool.
type StatusOutput struct {
	UptimeSeconds   int64                   `json:"uptime_seconds"`
	RefreshInterval int                     `json:"refresh_interval"`
	Tracked         []borderless.SavedState `json:"tracked"`
	Held            []borderless.SavedState `json:"held"`
	RuleCount       int                     `json:"rule_count"`
	FullscreenRules int                     `json:"fullscreen_rules"`
}

// ReconcileInput is the input for the reconcile tool.
type ReconcileInput struct{}

// ReconcileOutput is the output for the reconcile tool.
type ReconcileOutput struct {
	Applied []uint64 `json:"applied"`
	Matched int      `json:"matched"`
	Reset   int      `json:"reset"`
}

// ListRulesInput is the input for the list_rules tool.
type ListRulesInput struct{}

// RuleInfo describes one match rule.
type RuleInfo struct {
	Index      int    `json:"index"`
	Pattern    string `json:"pattern"`
	Mode       string `json:"mode"`
	Fullscreen bool   `json:"fullscreen"`
	Window     uint64 `json:"window,omitempty"`
	Suspended  bool   `json:"suspended,omitempty"`
}

// ListRulesOutput is the output for the list_rules tool.
type ListRulesOutput struct {
	Rules []RuleInfo `json:"rules"`
}

// AddRuleInput is the input for the add_rule tool.
type AddRuleInput struct {
	Pattern string `json:"pattern" jsonschema:"Exact title or executable name to match"`
	Mode    string `json:"mode,omitempty" jsonschema:"Match mode: title (default) or exe"`
}

// AddRuleOutput is the output for the add_rule tool.
type AddRuleOutput struct {
	Index int `json:"index"`
}

// RemoveRuleInput is the input for the remove_rule tool.
type RemoveRuleInput struct {
	Index int `json:"index" jsonschema:"Rule index from list_rules"`
}

// RemoveRuleOutput is the output for the remove_rule tool.
type RemoveRuleOutput struct {
	Removed  RuleInfo `json:"removed"`
	Restored bool     `json:"restored"`
}

// SetRuleModeInput is the input for the set_rule_mode tool.
type SetRuleModeInput struct {
	Index   int    `json:"index" jsonschema:"Rule index from list_rules"`
	Mode    string `json:"mode" jsonschema:"New match mode: title or exe"`
	Pattern string `json:"pattern" jsonschema:"Pattern to compare in the new mode"`
}

// SetRuleModeOutput is the output for the set_rule_mode tool.
type SetRuleModeOutput struct {
	Rule RuleInfo `json:"rule"`
}

func (in TargetInput) target() borderless.Target {
	return borderless.Target{ID: platform.WindowID(in.ID), Title: in.Title, ImageName: in.ImageName}
}

func actionOutput(res daemon.ActionResult) ActionOutput {
	return ActionOutput{Window: uint64(res.Window), Changed: res.Changed, Borderless: res.Borderless}
}

func ruleInfo(index int, r borderless.MatchRule) RuleInfo {
	info := RuleInfo{
		Index:      index,
		Pattern:    r.Pattern,
		Mode:       r.Mode.String(),
		Fullscreen: r.Fullscreen,
		Suspended:  r.Suspended != 0,
	}
	if r.Fullscreen && r.Saved != nil {
		info.Window = uint64(r.Saved.Window)
	}
	return info
}
