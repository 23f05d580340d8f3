package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/1broseidon/borderless/internal/borderless"
	"github.com/1broseidon/borderless/internal/daemon"
	"github.com/1broseidon/borderless/internal/ipc"
	"github.com/1broseidon/borderless/internal/platform"
)

type StatusOutput struct {
	Body daemon.Status
}

type WindowsOutput struct {
	Body []borderless.DiscoveredWindow
}

type TargetInput struct {
	Body struct {
		ID        uint64 `json:"id,omitempty" doc:"Window handle"`
		Title     string `json:"title,omitempty" doc:"Exact window title"`
		ImageName string `json:"image_name,omitempty" doc:"Exact executable name"`
	}
}

func (in *TargetInput) target() borderless.Target {
	return borderless.Target{
		ID:        platform.WindowID(in.Body.ID),
		Title:     in.Body.Title,
		ImageName: in.Body.ImageName,
	}
}

type ActionOutput struct {
	Body daemon.ActionResult
}

type ReconcileOutput struct {
	Body borderless.ReconcileResult
}

type RulesOutput struct {
	Body []borderless.MatchRule
}

type ruleBody struct {
	Pattern string `json:"pattern" minLength:"1" doc:"Exact title or executable name"`
	Mode    string `json:"mode,omitempty" enum:"title,exe" default:"title"`
}

type RuleInput struct {
	Body ruleBody
}

type RuleCreatedOutput struct {
	Body ipc.AddRuleData
}

type RuleIndexInput struct {
	Index int `path:"index" minimum:"0"`
}

type RuleUpdateInput struct {
	Index int `path:"index" minimum:"0"`
	Body  ruleBody
}

type RuleOutput struct {
	Body borderless.MatchRule
}

func register(api huma.API, ctrl ipc.Controller) {
	huma.Register(api, huma.Operation{
		OperationID: "get-status",
		Method:      http.MethodGet,
		Path:        "/status",
		Summary:     "Daemon status",
	}, func(ctx context.Context, _ *struct{}) (*StatusOutput, error) {
		return &StatusOutput{Body: ctrl.Status()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-windows",
		Method:      http.MethodGet,
		Path:        "/windows",
		Summary:     "List visible titled windows",
	}, func(ctx context.Context, _ *struct{}) (*WindowsOutput, error) {
		windows, err := ctrl.ListWindows()
		if err != nil {
			return nil, toHTTPError(err)
		}
		if windows == nil {
			windows = []borderless.DiscoveredWindow{}
		}
		return &WindowsOutput{Body: windows}, nil
	})

	action := func(id, path, summary string, op func(borderless.Target) (daemon.ActionResult, error)) {
		huma.Register(api, huma.Operation{
			OperationID: id,
			Method:      http.MethodPost,
			Path:        path,
			Summary:     summary,
		}, func(ctx context.Context, in *TargetInput) (*ActionOutput, error) {
			res, err := op(in.target())
			if err != nil {
				return nil, toHTTPError(err)
			}
			return &ActionOutput{Body: res}, nil
		})
	}
	action("apply-borderless", "/windows/apply", "Make a window borderless", ctrl.Apply)
	action("restore-windowed", "/windows/restore", "Restore a window to its windowed state", ctrl.Restore)
	action("toggle-borderless", "/windows/toggle", "Toggle a window", ctrl.Toggle)

	huma.Register(api, huma.Operation{
		OperationID: "toggle-active",
		Method:      http.MethodPost,
		Path:        "/windows/active/toggle",
		Summary:     "Toggle the foreground window",
	}, func(ctx context.Context, _ *struct{}) (*ActionOutput, error) {
		res, err := ctrl.ToggleActive()
		if err != nil {
			return nil, toHTTPError(err)
		}
		return &ActionOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reconcile",
		Method:      http.MethodPost,
		Path:        "/reconcile",
		Summary:     "Run one match-rule pass",
	}, func(ctx context.Context, _ *struct{}) (*ReconcileOutput, error) {
		res, err := ctrl.Reconcile()
		if err != nil {
			return nil, toHTTPError(err)
		}
		return &ReconcileOutput{Body: res}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/rules",
		Summary:     "List match rules in evaluation order",
	}, func(ctx context.Context, _ *struct{}) (*RulesOutput, error) {
		rules := ctrl.Rules()
		if rules == nil {
			rules = []borderless.MatchRule{}
		}
		return &RulesOutput{Body: rules}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-rule",
		Method:        http.MethodPost,
		Path:          "/rules",
		Summary:       "Add a match rule",
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, in *RuleInput) (*RuleCreatedOutput, error) {
		mode, err := borderless.ParseMatchMode(in.Body.Mode)
		if err != nil {
			return nil, toHTTPError(err)
		}
		index, err := ctrl.AddRule(in.Body.Pattern, mode)
		if err != nil {
			return nil, toHTTPError(err)
		}
		return &RuleCreatedOutput{Body: ipc.AddRuleData{Index: index}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-rule",
		Method:      http.MethodPut,
		Path:        "/rules/{index}",
		Summary:     "Change a rule's pattern and match mode",
	}, func(ctx context.Context, in *RuleUpdateInput) (*struct{}, error) {
		mode, err := borderless.ParseMatchMode(in.Body.Mode)
		if err != nil {
			return nil, toHTTPError(err)
		}
		if err := ctrl.SetRuleMode(in.Index, mode, in.Body.Pattern); err != nil {
			return nil, toHTTPError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-rule",
		Method:      http.MethodDelete,
		Path:        "/rules/{index}",
		Summary:     "Remove a rule, restoring the window it holds",
	}, func(ctx context.Context, in *RuleIndexInput) (*RuleOutput, error) {
		removed, err := ctrl.RemoveRule(in.Index)
		if err != nil {
			return nil, toHTTPError(err)
		}
		return &RuleOutput{Body: removed}, nil
	})
}

// toHTTPError maps daemon errors onto status codes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, borderless.ErrNoTarget), errors.Is(err, borderless.ErrUnknownMatchMode):
		return huma.Error400BadRequest(err.Error())
	case errors.Is(err, borderless.ErrTargetNotFound), errors.Is(err, borderless.ErrRuleNotFound):
		return huma.Error404NotFound(err.Error())
	case errors.Is(err, borderless.ErrDuplicateRule):
		return huma.Error409Conflict(err.Error())
	case errors.Is(err, daemon.ErrNoActiveWindow):
		return huma.Error503ServiceUnavailable(err.Error())
	}
	return huma.Error500InternalServerError(err.Error())
}
