// Package jql implements the query-builder state machine: a tree of
// clauses and groups, a pure action reducer, and a deterministic
// emitter producing a JQL string.
package jql

import "github.com/google/uuid"

// GroupMode joins a group's children.
type GroupMode string

const (
	ModeAnd GroupMode = "AND"
	ModeOr  GroupMode = "OR"
)

// Joiner optionally overrides the enclosing group's mode for the
// boundary before a child. Empty means "inherit".
type Joiner string

const (
	JoinerNone Joiner = ""
	JoinerAnd  Joiner = "AND"
	JoinerOr   Joiner = "OR"
)

// ValueMode selects how a clause's value is emitted.
type ValueMode string

const (
	ValueText     ValueMode = "text"
	ValueList     ValueMode = "list"
	ValueFunction ValueMode = "function"
	ValueRaw      ValueMode = "raw"
)

// TextSearchMode selects the Lucene escaping applied to text-search
// operator values.
type TextSearchMode string

const (
	SearchSimple    TextSearchMode = "simple"
	SearchPhrase    TextSearchMode = "phrase"
	SearchWildcard  TextSearchMode = "wildcard"
	SearchPrefix    TextSearchMode = "prefix"
	SearchSuffix    TextSearchMode = "suffix"
	SearchFuzzy     TextSearchMode = "fuzzy"
	SearchProximity TextSearchMode = "proximity"
	SearchBoost     TextSearchMode = "boost"
	SearchRaw       TextSearchMode = "raw"
)

// SortDirection orders a sort entry.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ValueState holds the clause's value input.
type ValueState struct {
	Mode ValueMode `json:"mode"`
	Text string    `json:"text,omitempty"`
	List []string  `json:"list,omitempty"`
}

// TextSearchState refines text-search emission for ~ / !~ operators.
type TextSearchState struct {
	Mode     TextSearchMode `json:"mode,omitempty"`
	Distance int            `json:"distance,omitempty"`
	Boost    float64        `json:"boost,omitempty"`
}

// HistoryState carries the optional predicates of WAS/CHANGED operators.
type HistoryState struct {
	By     string `json:"by,omitempty"`
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// Clause is a leaf condition.
type Clause struct {
	ID          string          `json:"id"`
	Joiner      Joiner          `json:"joiner,omitempty"`
	Negated     bool            `json:"negated,omitempty"`
	Field       string          `json:"field,omitempty"`
	OperatorKey string          `json:"operator,omitempty"`
	Value       ValueState      `json:"value"`
	TextSearch  TextSearchState `json:"text_search,omitempty"`
	History     HistoryState    `json:"history,omitempty"`
}

// Group joins child nodes under a mode.
type Group struct {
	ID       string    `json:"id"`
	Joiner   Joiner    `json:"joiner,omitempty"`
	Negated  bool      `json:"negated,omitempty"`
	Mode     GroupMode `json:"mode"`
	Children []Node    `json:"children"`
}

// Node is the tagged union of clause and group.
type Node struct {
	Clause *Clause `json:"clause,omitempty"`
	Group  *Group  `json:"group,omitempty"`
}

// SortEntry is one ORDER BY term.
type SortEntry struct {
	ID        string        `json:"id"`
	Field     string        `json:"field"`
	Direction SortDirection `json:"direction"`
}

// Settings are the builder-level options persisted with the state.
type Settings struct {
	AutoQuote bool `json:"auto_quote"`
}

// State is the whole serializable builder state.
type State struct {
	Root     Group       `json:"root"`
	Sorts    []SortEntry `json:"sorts,omitempty"`
	Settings Settings    `json:"settings"`
}

// NewNodeID returns a fresh unique node id.
func NewNodeID() string {
	return uuid.NewString()
}

// DefaultState returns a tree with a single empty clause under an AND
// root, default settings and no sorts.
func DefaultState() *State {
	return &State{
		Root: Group{
			ID:   NewNodeID(),
			Mode: ModeAnd,
			Children: []Node{
				{Clause: &Clause{ID: NewNodeID(), Value: ValueState{Mode: ValueText}}},
			},
		},
		Settings: Settings{AutoQuote: true},
	}
}

// Clone returns a deep copy; reducers never alias the input state.
func (s *State) Clone() *State {
	out := &State{Settings: s.Settings}
	out.Root = *cloneGroup(&s.Root)
	if s.Sorts != nil {
		out.Sorts = append([]SortEntry(nil), s.Sorts...)
	}
	return out
}

func cloneGroup(g *Group) *Group {
	out := &Group{
		ID:      g.ID,
		Joiner:  g.Joiner,
		Negated: g.Negated,
		Mode:    g.Mode,
	}
	for _, child := range g.Children {
		out.Children = append(out.Children, cloneNode(child))
	}
	return out
}

func cloneNode(n Node) Node {
	if n.Group != nil {
		return Node{Group: cloneGroup(n.Group)}
	}
	if n.Clause != nil {
		c := *n.Clause
		if c.Value.List != nil {
			c.Value.List = append([]string(nil), c.Value.List...)
		}
		return Node{Clause: &c}
	}
	return Node{}
}

// findClause locates a clause by id, depth-first.
func findClause(g *Group, id string) *Clause {
	for i := range g.Children {
		child := &g.Children[i]
		if child.Clause != nil && child.Clause.ID == id {
			return child.Clause
		}
		if child.Group != nil {
			if c := findClause(child.Group, id); c != nil {
				return c
			}
		}
	}
	return nil
}

// findGroup locates a group by id, including the root.
func findGroup(g *Group, id string) *Group {
	if g.ID == id {
		return g
	}
	for i := range g.Children {
		if child := g.Children[i].Group; child != nil {
			if found := findGroup(child, id); found != nil {
				return found
			}
		}
	}
	return nil
}

// removeNode deletes the node with id from the subtree, depth-first,
// without re-parenting. Returns true when a node was removed.
func removeNode(g *Group, id string) bool {
	for i := range g.Children {
		child := g.Children[i]
		if (child.Clause != nil && child.Clause.ID == id) ||
			(child.Group != nil && child.Group.ID == id) {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			return true
		}
		if child.Group != nil && removeNode(child.Group, id) {
			return true
		}
	}
	return false
}
