package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubworks/sitepilot/internal/jql"
	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

const (
	jqlInputSelector = "textarea#advanced-search, input#jql"
	// JQLArtifact names the Alert artifact carrying the built query.
	JQLArtifact = "jira.jql.query"
)

// BuildJQLQuery reconstructs a builder state from the invocation
// context, replays any queued actions through the reducer, and renders
// the query. When a search input selector is reachable the query is
// also typed into the page; the Alert artifact carries the query either
// way.
func BuildJQLQuery(ctx context.Context, inv *Invocation) (*model.CommandResult, error) {
	state, err := builderStateFromContext(inv.Context)
	if err != nil {
		return nil, err
	}

	actions, err := builderActionsFromContext(inv.Context)
	if err != nil {
		return nil, err
	}
	for _, action := range actions {
		state, err = jql.Apply(state, action)
		if err != nil {
			return nil, err
		}
	}

	query := jql.Build(state)

	typed := false
	if query != "" {
		selector := jqlInputSelector
		if s, ok := inv.contextString("inputSelector"); ok {
			selector = s
		}
		if _, err := inv.Driver.WaitFor(ctx, selector, 2000); err == nil {
			if err := inv.Driver.TypeText(ctx, selector, query); err == nil {
				typed = true
			}
		}
	}

	result := model.NewCommandResult(registry.CmdJiraJQLBuild)
	result.AddArtifact(model.RunArtifact{
		Kind:    model.ArtifactAlert,
		Name:    JQLArtifact,
		Columns: []string{"query"},
		Rows:    [][]string{{query}},
		Meta:    inv.meta(),
	})
	result.Diagnostics["query"] = query
	result.Diagnostics["typed"] = typed
	result.Diagnostics["actions"] = len(actions)
	return result, nil
}

// builderStateFromContext decodes the "state" context entry, accepting
// either a JSON string or an already-decoded map. Absent state means
// the default tree.
func builderStateFromContext(cmdContext map[string]any) (*jql.State, error) {
	raw, ok := cmdContext["state"]
	if !ok {
		return jql.DefaultState(), nil
	}
	data, err := contextJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: builder state: %w", model.ErrCodeInputInvalid, err)
	}
	var state jql.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%s: builder state: %w", model.ErrCodeInputInvalid, err)
	}
	if state.Root.ID == "" {
		return jql.DefaultState(), nil
	}
	return &state, nil
}

func builderActionsFromContext(cmdContext map[string]any) ([]jql.Action, error) {
	raw, ok := cmdContext["actions"]
	if !ok {
		return nil, nil
	}
	data, err := contextJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: builder actions: %w", model.ErrCodeInputInvalid, err)
	}
	var actions []jql.Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("%s: builder actions: %w", model.ErrCodeInputInvalid, err)
	}
	return actions, nil
}

// contextJSON normalizes a context entry to raw JSON bytes.
func contextJSON(v any) ([]byte, error) {
	if s, ok := v.(string); ok {
		return []byte(s), nil
	}
	return json.Marshal(v)
}
