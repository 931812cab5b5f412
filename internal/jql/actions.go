package jql

import (
	"fmt"

	"github.com/hubworks/sitepilot/internal/model"
)

// ActionType enumerates the closed reducer action set.
type ActionType string

const (
	SetClauseField     ActionType = "set_clause_field"
	SetClauseOperator  ActionType = "set_clause_operator"
	SetClauseNot       ActionType = "set_clause_not"
	SetClauseJoiner    ActionType = "set_clause_joiner"
	SetValueMode       ActionType = "set_value_mode"
	SetValueText       ActionType = "set_value_text"
	SetValueList       ActionType = "set_value_list"
	SetTextSearch      ActionType = "set_text_search"
	SetClauseHistory   ActionType = "set_clause_history"
	SetGroupMode       ActionType = "set_group_mode"
	SetGroupNot        ActionType = "set_group_not"
	SetGroupJoiner     ActionType = "set_group_joiner"
	AddClause          ActionType = "add_clause"
	AddGroup           ActionType = "add_group"
	RemoveNode         ActionType = "remove_node"
	AddSort            ActionType = "add_sort"
	RemoveSort         ActionType = "remove_sort"
	SetBuilderSettings ActionType = "set_settings"
)

// Action is one reducer input. TargetID addresses the node (or sort)
// the action operates on; the remaining fields are per-type payloads.
type Action struct {
	Type     ActionType      `json:"type"`
	TargetID string          `json:"target_id,omitempty"`
	Field    string          `json:"field,omitempty"`
	Operator string          `json:"operator,omitempty"`
	Negated  bool            `json:"negated,omitempty"`
	Joiner   Joiner          `json:"joiner,omitempty"`
	Mode     string          `json:"mode,omitempty"`
	Text     string          `json:"text,omitempty"`
	List     []string        `json:"list,omitempty"`
	Search   TextSearchState `json:"search,omitempty"`
	History  HistoryState    `json:"history,omitempty"`
	Sort     SortEntry       `json:"sort,omitempty"`
	Settings *Settings       `json:"settings,omitempty"`
}

// Apply is the pure reducer: it returns a new state and never mutates
// the input. Unknown target ids fail with input.invalid codes.
func Apply(state *State, action Action) (*State, error) {
	next := state.Clone()

	switch action.Type {
	case SetClauseField, SetClauseOperator, SetClauseNot, SetClauseJoiner,
		SetValueMode, SetValueText, SetValueList, SetTextSearch, SetClauseHistory:
		clause := findClause(&next.Root, action.TargetID)
		if clause == nil {
			return nil, fmt.Errorf("%s: clause not found", model.ErrCodeInputInvalid)
		}
		applyClauseAction(clause, action)

	case SetGroupMode, SetGroupNot, SetGroupJoiner:
		group := findGroup(&next.Root, action.TargetID)
		if group == nil {
			return nil, fmt.Errorf("%s: group not found", model.ErrCodeInputInvalid)
		}
		applyGroupAction(group, action)

	case AddClause:
		parent := findGroup(&next.Root, action.TargetID)
		if parent == nil {
			return nil, fmt.Errorf("%s: group not found", model.ErrCodeInputInvalid)
		}
		parent.Children = append(parent.Children, Node{
			Clause: &Clause{ID: NewNodeID(), Value: ValueState{Mode: ValueText}},
		})

	case AddGroup:
		parent := findGroup(&next.Root, action.TargetID)
		if parent == nil {
			return nil, fmt.Errorf("%s: group not found", model.ErrCodeInputInvalid)
		}
		mode := ModeAnd
		if GroupMode(action.Mode) == ModeOr {
			mode = ModeOr
		}
		parent.Children = append(parent.Children, Node{
			Group: &Group{
				ID:   NewNodeID(),
				Mode: mode,
				Children: []Node{
					{Clause: &Clause{ID: NewNodeID(), Value: ValueState{Mode: ValueText}}},
				},
			},
		})

	case RemoveNode:
		if action.TargetID == next.Root.ID {
			return nil, fmt.Errorf("%s: cannot remove root group", model.ErrCodeInputInvalid)
		}
		if !removeNode(&next.Root, action.TargetID) {
			return nil, fmt.Errorf("%s: clause not found", model.ErrCodeInputInvalid)
		}

	case AddSort:
		entry := action.Sort
		if entry.ID == "" {
			entry.ID = NewNodeID()
		}
		if entry.Direction == "" {
			entry.Direction = SortAsc
		}
		next.Sorts = append(next.Sorts, entry)

	case RemoveSort:
		removed := false
		for i, s := range next.Sorts {
			if s.ID == action.TargetID {
				next.Sorts = append(next.Sorts[:i], next.Sorts[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			return nil, fmt.Errorf("%s: sort not found", model.ErrCodeInputInvalid)
		}

	case SetBuilderSettings:
		if action.Settings != nil {
			next.Settings = *action.Settings
		}

	default:
		return nil, fmt.Errorf("%s: unknown action type %q", model.ErrCodeInputInvalid, action.Type)
	}

	return next, nil
}

func applyClauseAction(clause *Clause, action Action) {
	switch action.Type {
	case SetClauseField:
		clause.Field = action.Field
	case SetClauseOperator:
		clause.OperatorKey = action.Operator
	case SetClauseNot:
		clause.Negated = action.Negated
	case SetClauseJoiner:
		clause.Joiner = action.Joiner
	case SetValueMode:
		clause.Value.Mode = ValueMode(action.Mode)
	case SetValueText:
		clause.Value.Text = action.Text
	case SetValueList:
		clause.Value.List = append([]string(nil), action.List...)
	case SetTextSearch:
		clause.TextSearch = action.Search
	case SetClauseHistory:
		clause.History = action.History
	}
}

func applyGroupAction(group *Group, action Action) {
	switch action.Type {
	case SetGroupMode:
		if m := GroupMode(action.Mode); m == ModeAnd || m == ModeOr {
			group.Mode = m
		}
	case SetGroupNot:
		group.Negated = action.Negated
	case SetGroupJoiner:
		group.Joiner = action.Joiner
	}
}
