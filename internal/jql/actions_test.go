package jql

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyNeverMutatesInput(t *testing.T) {
	state := DefaultState()
	clauseID := state.Root.Children[0].Clause.ID

	next, err := Apply(state, Action{Type: SetValueText, TargetID: clauseID, Text: "changed"})
	require.NoError(t, err)

	assert.Equal(t, "", state.Root.Children[0].Clause.Value.Text)
	assert.Equal(t, "changed", next.Root.Children[0].Clause.Value.Text)
}

func TestApplyClauseActions(t *testing.T) {
	state := DefaultState()
	clauseID := state.Root.Children[0].Clause.ID

	actions := []Action{
		{Type: SetClauseField, TargetID: clauseID, Field: "summary"},
		{Type: SetClauseOperator, TargetID: clauseID, Operator: "~"},
		{Type: SetValueText, TargetID: clauseID, Text: "quick brown"},
		{Type: SetTextSearch, TargetID: clauseID, Search: TextSearchState{Mode: SearchPhrase}},
	}
	var err error
	for _, a := range actions {
		state, err = Apply(state, a)
		require.NoError(t, err)
	}

	assert.Equal(t, `summary ~ "\"quick brown\""`, Build(state))
}

func TestApplyUnknownTarget(t *testing.T) {
	state := DefaultState()

	_, err := Apply(state, Action{Type: SetClauseField, TargetID: "missing", Field: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input.invalid")

	_, err = Apply(state, Action{Type: SetGroupMode, TargetID: "missing", Mode: "OR"})
	assert.Error(t, err)
}

func TestApplyAddAndRemoveNodes(t *testing.T) {
	state := DefaultState()
	rootID := state.Root.ID

	state, err := Apply(state, Action{Type: AddClause, TargetID: rootID})
	require.NoError(t, err)
	require.Len(t, state.Root.Children, 2)

	state, err = Apply(state, Action{Type: AddGroup, TargetID: rootID, Mode: "OR"})
	require.NoError(t, err)
	require.Len(t, state.Root.Children, 3)
	group := state.Root.Children[2].Group
	require.NotNil(t, group)
	assert.Equal(t, ModeOr, group.Mode)
	assert.Len(t, group.Children, 1, "new groups start with one empty clause")

	state, err = Apply(state, Action{Type: RemoveNode, TargetID: group.ID})
	require.NoError(t, err)
	assert.Len(t, state.Root.Children, 2)

	_, err = Apply(state, Action{Type: RemoveNode, TargetID: rootID})
	assert.Error(t, err, "the root group is not removable")
}

func TestApplySorts(t *testing.T) {
	state := DefaultState()

	state, err := Apply(state, Action{Type: AddSort, Sort: SortEntry{Field: "created"}})
	require.NoError(t, err)
	require.Len(t, state.Sorts, 1)
	assert.NotEmpty(t, state.Sorts[0].ID)
	assert.Equal(t, SortAsc, state.Sorts[0].Direction)

	state, err = Apply(state, Action{Type: RemoveSort, TargetID: state.Sorts[0].ID})
	require.NoError(t, err)
	assert.Empty(t, state.Sorts)

	_, err = Apply(state, Action{Type: RemoveSort, TargetID: "missing"})
	assert.Error(t, err)
}

func TestApplyUnknownActionType(t *testing.T) {
	_, err := Apply(DefaultState(), Action{Type: "teleport"})
	assert.Error(t, err)
}

func TestStateJSONRoundTrip(t *testing.T) {
	state := DefaultState()
	clauseID := state.Root.Children[0].Clause.ID

	state, err := Apply(state, Action{Type: SetClauseField, TargetID: clauseID, Field: "status"})
	require.NoError(t, err)
	state, err = Apply(state, Action{Type: SetClauseOperator, TargetID: clauseID, Operator: "in"})
	require.NoError(t, err)
	state, err = Apply(state, Action{Type: SetValueMode, TargetID: clauseID, Mode: "list"})
	require.NoError(t, err)
	state, err = Apply(state, Action{Type: SetValueList, TargetID: clauseID, List: []string{"Open", "Closed"}})
	require.NoError(t, err)

	data, err := json.Marshal(state)
	require.NoError(t, err)

	var decoded State
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Build(state), Build(&decoded))
	assert.Equal(t, "status IN (Open, Closed)", Build(&decoded))
}
