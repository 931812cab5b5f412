package model

import "fmt"

// ActionKind discriminates the Action variants.
type ActionKind string

const (
	ActionWaitFor      ActionKind = "wait_for"
	ActionClick        ActionKind = "click"
	ActionTypeText     ActionKind = "type_text"
	ActionExtractTable ActionKind = "extract_table"
	ActionExecute      ActionKind = "execute"
)

var validActionKinds = map[ActionKind]bool{
	ActionWaitFor:      true,
	ActionClick:        true,
	ActionTypeText:     true,
	ActionExtractTable: true,
	ActionExecute:      true,
}

// Action is one declarative step of a workflow. Which fields are
// meaningful depends on Kind.
type Action struct {
	Kind      ActionKind `json:"kind" yaml:"kind"`
	Selector  string     `json:"selector,omitempty" yaml:"selector,omitempty"`
	Text      string     `json:"text,omitempty" yaml:"text,omitempty"`
	TimeoutMs int64      `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	Command   string     `json:"command,omitempty" yaml:"command,omitempty"`
}

// WaitFor blocks until the selector resolves or the timeout elapses.
func WaitFor(selector string, timeoutMs int64) Action {
	return Action{Kind: ActionWaitFor, Selector: selector, TimeoutMs: timeoutMs}
}

// Click dispatches a synthetic activation on the matched element.
func Click(selector string) Action {
	return Action{Kind: ActionClick, Selector: selector}
}

// TypeText sets the element's value and emits input/change notifications.
func TypeText(selector, text string) Action {
	return Action{Kind: ActionTypeText, Selector: selector, Text: text}
}

// ExtractTable snapshots a table as row maps keyed by normalized headers.
func ExtractTable(selector string) Action {
	return Action{Kind: ActionExtractTable, Selector: selector}
}

// Execute invokes a named command handler by key.
func Execute(command string) Action {
	return Action{Kind: ActionExecute, Command: command}
}

// Target returns what the action operates on, for step reporting.
func (a Action) Target() string {
	if a.Kind == ActionExecute {
		return a.Command
	}
	return a.Selector
}

// Validate checks the variant's required fields.
func (a Action) Validate() error {
	if !validActionKinds[a.Kind] {
		return fmt.Errorf("unknown action kind: %q", a.Kind)
	}
	switch a.Kind {
	case ActionExecute:
		if a.Command == "" {
			return fmt.Errorf("execute action requires a command key")
		}
	default:
		if a.Selector == "" {
			return fmt.Errorf("%s action requires a selector", a.Kind)
		}
	}
	return nil
}
