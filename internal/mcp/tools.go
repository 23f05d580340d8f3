package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
)

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.daemon.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}
	return nil, StatusOutput{
		UptimeSeconds:   st.UptimeSeconds,
		RefreshInterval: st.RefreshInterval,
		Tracked:         st.Tracked,
		Held:            st.Held,
		RuleCount:       st.RuleCount,
		FullscreenRules: st.FullscreenRules,
	}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	windows, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	if windows == nil {
		windows = []borderless.DiscoveredWindow{}
	}
	return nil, ListWindowsOutput{Windows: windows}, nil
}

func (s *Server) handleApply(_ context.Context, _ *mcpsdk.CallToolRequest, args TargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.action("apply_borderless", args, s.daemon.Apply)
}

func (s *Server) handleRestore(_ context.Context, _ *mcpsdk.CallToolRequest, args TargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.action("restore_windowed", args, s.daemon.Restore)
}

func (s *Server) handleToggle(_ context.Context, _ *mcpsdk.CallToolRequest, args TargetInput) (*mcpsdk.CallToolResult, ActionOutput, error) {
	return s.action("toggle_borderless", args, s.daemon.Toggle)
}

func (s *Server) action(tool string, args TargetInput, op func(borderless.Target) (daemon.ActionResult, error)) (*mcpsdk.CallToolResult, ActionOutput, error) {
	target := args.target()
	if target == (borderless.Target{}) {
		return nil, ActionOutput{}, fmt.Errorf("%s: %w", tool, borderless.ErrNoTarget)
	}
	res, err := op(target)
	if err != nil {
		return nil, ActionOutput{}, err
	}
	s.logger.Debug("mcp tool", "tool", tool, "target", target.String(), "changed", res.Changed)
	return nil, actionOutput(res), nil
}

func (s *Server) handleReconcile(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReconcileInput) (*mcpsdk.CallToolResult, ReconcileOutput, error) {
	res, err := s.daemon.Reconcile()
	if err != nil {
		return nil, ReconcileOutput{}, err
	}
	out := ReconcileOutput{Applied: make([]uint64, 0, len(res.Applied)), Matched: res.Matched, Reset: res.Reset}
	for _, id := range res.Applied {
		out.Applied = append(out.Applied, uint64(id))
	}
	return nil, out, nil
}

func (s *Server) handleListRules(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListRulesInput) (*mcpsdk.CallToolResult, ListRulesOutput, error) {
	rules, err := s.daemon.Rules()
	if err != nil {
		return nil, ListRulesOutput{}, err
	}
	out := ListRulesOutput{Rules: make([]RuleInfo, 0, len(rules))}
	for i, r := range rules {
		out.Rules = append(out.Rules, ruleInfo(i, r))
	}
	return nil, out, nil
}

func (s *Server) handleAddRule(_ context.Context, _ *mcpsdk.CallToolRequest, args AddRuleInput) (*mcpsdk.CallToolResult, AddRuleOutput, error) {
	if args.Pattern == "" {
		return nil, AddRuleOutput{}, fmt.Errorf("add_rule: pattern is required")
	}
	mode, err := borderless.ParseMatchMode(args.Mode)
	if err != nil {
		return nil, AddRuleOutput{}, err
	}
	index, err := s.daemon.AddRule(args.Pattern, mode)
	if err != nil {
		return nil, AddRuleOutput{}, err
	}
	return nil, AddRuleOutput{Index: index}, nil
}

func (s *Server) handleRemoveRule(_ context.Context, _ *mcpsdk.CallToolRequest, args RemoveRuleInput) (*mcpsdk.CallToolResult, RemoveRuleOutput, error) {
	rules, err := s.daemon.Rules()
	if err != nil {
		return nil, RemoveRuleOutput{}, err
	}
	held := args.Index >= 0 && args.Index < len(rules) && rules[args.Index].Fullscreen

	removed, err := s.daemon.RemoveRule(args.Index)
	if err != nil {
		return nil, RemoveRuleOutput{}, err
	}
	return nil, RemoveRuleOutput{
		Removed:  ruleInfo(args.Index, removed),
		Restored: held,
	}, nil
}

func (s *Server) handleSetRuleMode(_ context.Context, _ *mcpsdk.CallToolRequest, args SetRuleModeInput) (*mcpsdk.CallToolResult, SetRuleModeOutput, error) {
	if args.Pattern == "" {
		return nil, SetRuleModeOutput{}, fmt.Errorf("set_rule_mode: pattern is required")
	}
	mode, err := borderless.ParseMatchMode(args.Mode)
	if err != nil {
		return nil, SetRuleModeOutput{}, err
	}
	if err := s.daemon.SetRuleMode(args.Index, mode, args.Pattern); err != nil {
		return nil, SetRuleModeOutput{}, err
	}
	rules, err := s.daemon.Rules()
	if err != nil {
		return nil, SetRuleModeOutput{}, err
	}
	if args.Index < 0 || args.Index >= len(rules) {
		return nil, SetRuleModeOutput{}, fmt.Errorf("set_rule_mode: %w: index %d", borderless.ErrRuleNotFound, args.Index)
	}
	return nil, SetRuleModeOutput{Rule: ruleInfo(args.Index, rules[args.Index])}, nil
}
