package registry

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/hubworks/sitepilot/internal/model"
)

// RuleEngine composes the built-in rules from all sites with an
// optional user-supplied list. Built-ins are immutable; user rules may
// be added, removed and toggled.
type RuleEngine struct {
	mu        sync.RWMutex
	builtins  []model.RuleDefinition
	userRules []model.RuleDefinition
}

// NewRuleEngine builds an engine over the built-in catalog plus any
// user rules. User rules are validated; an invalid rule is rejected.
func NewRuleEngine(userRules []model.RuleDefinition) (*RuleEngine, error) {
	e := &RuleEngine{
		builtins: append([]model.RuleDefinition(nil), builtinRules...),
	}
	for _, r := range userRules {
		if err := e.AddUserRule(r); err != nil {
			return nil, fmt.Errorf("user rule %s: %w", r.ID, err)
		}
	}
	return e, nil
}

// userRulesFile is the on-disk shape of a user rule list.
type userRulesFile struct {
	Rules []model.RuleDefinition `yaml:"rules"`
}

// LoadUserRules reads a YAML rule list from path. A missing file yields
// an empty list.
func LoadUserRules(path string) ([]model.RuleDefinition, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read user rules %s: %w", path, err)
	}
	var file userRulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse user rules %s: %w", path, err)
	}
	return file.Rules, nil
}

// All returns every known rule, built-ins first, as a fresh slice.
func (e *RuleEngine) All() []model.RuleDefinition {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.RuleDefinition, 0, len(e.builtins)+len(e.userRules))
	out = append(out, e.builtins...)
	out = append(out, e.userRules...)
	return out
}

// EnabledForSite returns the enabled rules for a site.
func (e *RuleEngine) EnabledForSite(site model.Site) []model.RuleDefinition {
	var out []model.RuleDefinition
	for _, r := range e.All() {
		if r.Site == site && r.Enabled {
			out = append(out, r)
		}
	}
	return out
}

// Partition splits a site's enabled rules into auto-triggered and
// on-demand lists. A rule is auto-triggered when its trigger is
// anything other than on_demand.
func (e *RuleEngine) Partition(site model.Site) (auto, onDemand []model.RuleDefinition) {
	for _, r := range e.EnabledForSite(site) {
		if r.Trigger.IsAuto() {
			auto = append(auto, r)
		} else {
			onDemand = append(onDemand, r)
		}
	}
	return auto, onDemand
}

// Lookup resolves a rule by id across built-ins and user rules.
func (e *RuleEngine) Lookup(id string) (model.RuleDefinition, bool) {
	for _, r := range e.All() {
		if r.ID == id {
			return r, true
		}
	}
	return model.RuleDefinition{}, false
}

// AddUserRule validates and appends a user rule. The id must be unique
// within the rule's site.
func (e *RuleEngine) AddUserRule(rule model.RuleDefinition) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if err := ValidateRuleSchema(rule); err != nil {
		return err
	}
	rule.Builtin = false

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.builtins {
		if existing.Site == rule.Site && existing.ID == rule.ID {
			return fmt.Errorf("rule id %q already registered for site %s", rule.ID, rule.Site)
		}
	}
	for _, existing := range e.userRules {
		if existing.Site == rule.Site && existing.ID == rule.ID {
			return fmt.Errorf("rule id %q already registered for site %s", rule.ID, rule.Site)
		}
	}
	e.userRules = append(e.userRules, rule)
	return nil
}

// RemoveUserRule deletes a user rule by id. Removing a missing or
// built-in id returns false.
func (e *RuleEngine) RemoveUserRule(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, r := range e.userRules {
		if r.ID == id {
			e.userRules = append(e.userRules[:i], e.userRules[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle sets the enabled flag of a user rule. Toggling a built-in or
// a missing id returns false.
func (e *RuleEngine) Toggle(id string, enabled bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.userRules {
		if e.userRules[i].ID == id {
			e.userRules[i].Enabled = enabled
			return true
		}
	}
	return false
}

// UserFacing filters out internal helper rules (priority >= 200).
func (e *RuleEngine) UserFacing(site model.Site) []model.RuleDefinition {
	var out []model.RuleDefinition
	for _, r := range e.All() {
		if r.Site == site && !r.IsInternal() {
			out = append(out, r)
		}
	}
	return out
}
