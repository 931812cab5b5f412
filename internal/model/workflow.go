package model

import "fmt"

// WorkflowDefinition is the imperative action list a rule (or a direct
// invocation) runs. IDs are unique within a site.
type WorkflowDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description" yaml:"description"`
	Site        Site     `json:"site" yaml:"site"`
	Actions     []Action `json:"actions" yaml:"actions"`
	Internal    bool     `json:"internal" yaml:"internal"`
}

// Validate checks the structural invariants of a single workflow.
func (w WorkflowDefinition) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("workflow id must not be empty")
	}
	if !w.Site.IsSupported() {
		return fmt.Errorf("workflow %s: unsupported site %q", w.ID, w.Site)
	}
	for i, a := range w.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("workflow %s action %d: %w", w.ID, i, err)
		}
	}
	return nil
}
