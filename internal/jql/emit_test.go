package jql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clauseNode(c Clause) Node {
	if c.ID == "" {
		c.ID = NewNodeID()
	}
	if c.Value.Mode == "" {
		c.Value.Mode = ValueText
	}
	return Node{Clause: &c}
}

func stateWith(children ...Node) *State {
	return &State{
		Root: Group{
			ID:       NewNodeID(),
			Mode:     ModeAnd,
			Children: children,
		},
		Settings: Settings{AutoQuote: true},
	}
}

func TestBuildDefaultStateIsEmpty(t *testing.T) {
	assert.Equal(t, "", Build(DefaultState()))
}

func TestBuildSingleClause(t *testing.T) {
	tests := []struct {
		name   string
		clause Clause
		want   string
	}{
		{
			name: "function value",
			clause: Clause{
				Field:       "assignee",
				OperatorKey: "=",
				Value:       ValueState{Mode: ValueFunction, Text: "currentUser"},
			},
			want: "assignee = currentUser()",
		},
		{
			name: "bare value passes unquoted",
			clause: Clause{
				Field:       "status",
				OperatorKey: "=",
				Value:       ValueState{Mode: ValueText, Text: "Open"},
			},
			want: "status = Open",
		},
		{
			name: "value with spaces is quoted",
			clause: Clause{
				Field:       "status",
				OperatorKey: "=",
				Value:       ValueState{Mode: ValueText, Text: "In Progress"},
			},
			want: `status = "In Progress"`,
		},
		{
			name: "reserved word never emitted bare",
			clause: Clause{
				Field:       "status",
				OperatorKey: "=",
				Value:       ValueState{Mode: ValueText, Text: "empty"},
			},
			want: `status = "empty"`,
		},
		{
			name: "phrase search double-quotes through jql quoting",
			clause: Clause{
				Field:       "summary",
				OperatorKey: "~",
				Value:       ValueState{Mode: ValueText, Text: "quick brown"},
				TextSearch:  TextSearchState{Mode: SearchPhrase},
			},
			want: `summary ~ "\"quick brown\""`,
		},
		{
			name: "contains aliases tilde",
			clause: Clause{
				Field:       "summary",
				OperatorKey: "contains",
				Value:       ValueState{Mode: ValueText, Text: "widget"},
			},
			want: `summary ~ "widget"`,
		},
		{
			name: "preset operator takes no value",
			clause: Clause{
				Field:       "resolution",
				OperatorKey: "is_empty",
			},
			want: "resolution IS EMPTY",
		},
		{
			name: "list operator",
			clause: Clause{
				Field:       "status",
				OperatorKey: "in",
				Value:       ValueState{Mode: ValueList, List: []string{"Open", "In Progress", ""}},
			},
			want: `status IN (Open, "In Progress")`,
		},
		{
			name: "empty list renders nothing",
			clause: Clause{
				Field:       "status",
				OperatorKey: "in",
				Value:       ValueState{Mode: ValueList, List: nil},
			},
			want: "",
		},
		{
			name: "all-blank list renders nothing",
			clause: Clause{
				Field:       "status",
				OperatorKey: "in",
				Value:       ValueState{Mode: ValueList, List: []string{"", "  "}},
			},
			want: "",
		},
		{
			name: "negated clause",
			clause: Clause{
				Field:       "labels",
				OperatorKey: "=",
				Negated:     true,
				Value:       ValueState{Mode: ValueText, Text: "triaged"},
			},
			want: "NOT labels = triaged",
		},
		{
			name: "unknown operator falls back to equals",
			clause: Clause{
				Field:       "priority",
				OperatorKey: "definitely_not_an_operator",
				Value:       ValueState{Mode: ValueText, Text: "High"},
			},
			want: "priority = High",
		},
		{
			name: "raw value passes through",
			clause: Clause{
				Field:       "created",
				OperatorKey: ">=",
				Value:       ValueState{Mode: ValueRaw, Text: " -4w "},
			},
			want: "created >= -4w",
		},
		{
			name: "field with spaces is quoted",
			clause: Clause{
				Field:       "Epic Link",
				OperatorKey: "=",
				Value:       ValueState{Mode: ValueText, Text: "AP-100"},
			},
			want: `"Epic Link" = AP-100`,
		},
		{
			name:   "empty field renders nothing",
			clause: Clause{OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "x"}},
			want:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Build(stateWith(clauseNode(tt.clause))))
		})
	}
}

func TestBuildSkipsEmptyListClauseInGroup(t *testing.T) {
	state := stateWith(
		clauseNode(Clause{
			Field:       "project",
			OperatorKey: "=",
			Value:       ValueState{Mode: ValueText, Text: "AP"},
		}),
		clauseNode(Clause{
			Field:       "status",
			OperatorKey: "in",
			Value:       ValueState{Mode: ValueList},
		}),
	)
	assert.Equal(t, "project = AP", Build(state))
}

func TestBuildHistoryPredicates(t *testing.T) {
	state := stateWith(clauseNode(Clause{
		Field:       "status",
		OperatorKey: "changed",
		History: HistoryState{
			From:   "To Do",
			To:     "Done",
			By:     "jsmith",
			Before: "2024-01-01",
		},
	}))
	assert.Equal(t, `status CHANGED FROM "To Do" TO Done BY jsmith BEFORE 2024-01-01`, Build(state))

	state = stateWith(clauseNode(Clause{
		Field:       "assignee",
		OperatorKey: "was",
		Value:       ValueState{Mode: ValueText, Text: "jdoe"},
		History:     HistoryState{After: "2023-06-01"},
	}))
	assert.Equal(t, "assignee WAS jdoe AFTER 2023-06-01", Build(state))
}

func TestBuildGroups(t *testing.T) {
	inner := &Group{
		ID:   NewNodeID(),
		Mode: ModeOr,
		Children: []Node{
			clauseNode(Clause{Field: "priority", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "High"}}),
			clauseNode(Clause{Field: "priority", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "Highest"}}),
		},
	}
	state := stateWith(
		clauseNode(Clause{Field: "project", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "AP"}}),
		Node{Group: inner},
	)
	assert.Equal(t, "project = AP AND (priority = High OR priority = Highest)", Build(state))

	// A singleton group unwraps without parentheses.
	single := &Group{
		ID:   NewNodeID(),
		Mode: ModeOr,
		Children: []Node{
			clauseNode(Clause{Field: "type", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "Bug"}}),
		},
	}
	state = stateWith(
		clauseNode(Clause{Field: "project", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "AP"}}),
		Node{Group: single},
	)
	assert.Equal(t, "project = AP AND type = Bug", Build(state))
}

func TestBuildJoinerOverride(t *testing.T) {
	second := Clause{
		Field:       "type",
		OperatorKey: "=",
		Joiner:      JoinerOr,
		Value:       ValueState{Mode: ValueText, Text: "Bug"},
	}
	state := stateWith(
		clauseNode(Clause{Field: "project", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "AP"}}),
		clauseNode(second),
	)
	assert.Equal(t, "project = AP OR type = Bug", Build(state))
}

func TestBuildNegatedGroup(t *testing.T) {
	inner := &Group{
		ID:      NewNodeID(),
		Mode:    ModeAnd,
		Negated: true,
		Children: []Node{
			clauseNode(Clause{Field: "type", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "Bug"}}),
		},
	}
	state := stateWith(
		clauseNode(Clause{Field: "project", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "AP"}}),
		Node{Group: inner},
	)
	assert.Equal(t, "project = AP AND NOT (type = Bug)", Build(state))
}

func TestBuildSorts(t *testing.T) {
	state := DefaultState()
	state.Sorts = []SortEntry{
		{ID: NewNodeID(), Field: "created", Direction: SortDesc},
		{ID: NewNodeID(), Field: "Epic Link"},
	}
	assert.Equal(t, `ORDER BY created DESC, "Epic Link" ASC`, Build(state))

	state.Root.Children = []Node{
		clauseNode(Clause{Field: "project", OperatorKey: "=", Value: ValueState{Mode: ValueText, Text: "AP"}}),
	}
	assert.Equal(t, `project = AP ORDER BY created DESC, "Epic Link" ASC`, Build(state))
}

func TestBuildAutoQuoteOff(t *testing.T) {
	state := stateWith(clauseNode(Clause{
		Field:       "status",
		OperatorKey: "=",
		Value:       ValueState{Mode: ValueText, Text: "Open"},
	}))
	state.Settings.AutoQuote = false
	assert.Equal(t, `status = "Open"`, Build(state))

	// Function calls stay unquoted even with auto-quoting off.
	state = stateWith(clauseNode(Clause{
		Field:       "assignee",
		OperatorKey: "=",
		Value:       ValueState{Mode: ValueText, Text: "membersOf(ap-team)"},
	}))
	state.Settings.AutoQuote = false
	assert.Equal(t, "assignee = membersOf(ap-team)", Build(state))
}

func TestOperatorCatalog(t *testing.T) {
	keys := OperatorKeys()
	assert.Len(t, keys, 23)
	assert.Equal(t, "~", LookupOperator("contains").Keyword)
	assert.Equal(t, "!~", LookupOperator("not_contains").Keyword)
	assert.Equal(t, "=", LookupOperator("nope").Keyword)
}
