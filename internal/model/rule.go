package model

import "fmt"

// TriggerKind says when a rule becomes eligible to run.
type TriggerKind string

const (
	TriggerOnPageLoad      TriggerKind = "on_page_load"
	TriggerOnDemand        TriggerKind = "on_demand"
	TriggerOnUrlMatch      TriggerKind = "on_url_match"
	TriggerOnElementAppear TriggerKind = "on_element_appear"
)

var validTriggerKinds = map[TriggerKind]bool{
	TriggerOnPageLoad:      true,
	TriggerOnDemand:        true,
	TriggerOnUrlMatch:      true,
	TriggerOnElementAppear: true,
}

// Trigger binds a kind with its optional selector payload
// (on_element_appear only).
type Trigger struct {
	Kind     TriggerKind `json:"kind" yaml:"kind"`
	Selector string      `json:"selector,omitempty" yaml:"selector,omitempty"`
}

// IsAuto reports whether the trigger fires without an explicit user request.
func (t Trigger) IsAuto() bool {
	return t.Kind != TriggerOnDemand
}

// Category groups rules in the user-facing catalog.
type Category string

const (
	CategoryDataCapture    Category = "data_capture"
	CategoryFormAutomation Category = "form_automation"
	CategoryUiEnhancement  Category = "ui_enhancement"
	CategoryNavigation     Category = "navigation"
	CategoryValidation     Category = "validation"
)

var validCategories = map[Category]bool{
	CategoryDataCapture:    true,
	CategoryFormAutomation: true,
	CategoryUiEnhancement:  true,
	CategoryNavigation:     true,
	CategoryValidation:     true,
}

// InternalPriorityCutoff marks helper rules hidden from the user-facing list.
const InternalPriorityCutoff = 200

// RuleDefinition is one catalog entry binding a trigger and a site to an
// action list. IDs are unique within a site.
type RuleDefinition struct {
	ID          string   `json:"id" yaml:"id"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description" yaml:"description"`
	Site        Site     `json:"site" yaml:"site"`
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	URLPattern  string   `json:"url_pattern,omitempty" yaml:"url_pattern,omitempty"`
	Trigger     Trigger  `json:"trigger" yaml:"trigger"`
	Actions     []Action `json:"actions" yaml:"actions"`
	Priority    uint16   `json:"priority" yaml:"priority"`
	Category    Category `json:"category" yaml:"category"`
	Builtin     bool     `json:"builtin" yaml:"builtin"`
}

// IsInternal reports whether the rule is a hidden helper.
func (r RuleDefinition) IsInternal() bool {
	return r.Priority >= InternalPriorityCutoff
}

// Validate checks the structural invariants of a single rule.
func (r RuleDefinition) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id must not be empty")
	}
	if !r.Site.IsSupported() {
		return fmt.Errorf("rule %s: unsupported site %q", r.ID, r.Site)
	}
	if !validTriggerKinds[r.Trigger.Kind] {
		return fmt.Errorf("rule %s: unknown trigger kind %q", r.ID, r.Trigger.Kind)
	}
	if r.Trigger.Kind == TriggerOnElementAppear && r.Trigger.Selector == "" {
		return fmt.Errorf("rule %s: on_element_appear trigger requires a selector", r.ID)
	}
	if !validCategories[r.Category] {
		return fmt.Errorf("rule %s: unknown category %q", r.ID, r.Category)
	}
	for i, a := range r.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("rule %s action %d: %w", r.ID, i, err)
		}
	}
	return nil
}
