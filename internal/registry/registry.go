package registry

import "github.com/hubworks/sitepilot/internal/model"

// WorkflowsForSite returns the built-in workflows for the site.
// The slice is freshly allocated so callers may mutate it freely.
func WorkflowsForSite(site model.Site) []model.WorkflowDefinition {
	var out []model.WorkflowDefinition
	for _, w := range builtinWorkflows {
		if w.Site == site {
			out = append(out, w)
		}
	}
	return out
}

// RulesForSite returns the built-in rules for the site.
// The slice is freshly allocated so callers may mutate it freely.
func RulesForSite(site model.Site) []model.RuleDefinition {
	var out []model.RuleDefinition
	for _, r := range builtinRules {
		if r.Site == site {
			out = append(out, r)
		}
	}
	return out
}

// WorkflowByID resolves a workflow within a site.
func WorkflowByID(site model.Site, id string) (model.WorkflowDefinition, bool) {
	for _, w := range builtinWorkflows {
		if w.Site == site && w.ID == id {
			return w, true
		}
	}
	return model.WorkflowDefinition{}, false
}

// WorkflowIDs lists the workflow ids for the site in registry order.
func WorkflowIDs(site model.Site) []string {
	var ids []string
	for _, w := range builtinWorkflows {
		if w.Site == site {
			ids = append(ids, w.ID)
		}
	}
	return ids
}
