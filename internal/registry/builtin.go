// Package registry enumerates the built-in workflow and rule catalogs
// per site and composes them with user-supplied rules.
package registry

import "github.com/hubworks/sitepilot/internal/model"

// Command keys referenced by built-in workflows. The command package
// registers a handler for each of these.
const (
	CmdJiraFilterCapture = "jira.filter_table.capture"
	CmdJiraJQLBuild      = "jira.jql.build"
	CmdInvoiceFill       = "erp.invoice.fill"
	CmdInvoiceLov        = "erp.invoice.lov"
	CmdInvoiceValidate   = "erp.invoice.validate"
	CmdBulkSearchScrape  = "research.bulk_search.scrape"
)

var builtinWorkflows = []model.WorkflowDefinition{
	{
		ID:          "jira.filter_table.export",
		Label:       "Export filter table",
		Description: "Captures the current Jira filter table and produces the AP export sheet.",
		Site:        model.SiteTracker,
		Actions: []model.Action{
			model.WaitFor("table.aui, div[data-testid='issue-table']", 8000),
			model.Execute(CmdJiraFilterCapture),
		},
	},
	{
		ID:          "jira.jql.compose",
		Label:       "Compose JQL query",
		Description: "Builds a JQL string from the saved query-builder state.",
		Site:        model.SiteTracker,
		Actions: []model.Action{
			model.Execute(CmdJiraJQLBuild),
		},
	},
	{
		ID:          "erp.invoice.create",
		Label:       "Create invoice",
		Description: "Fills the invoice creation form from the provided context and resolves supplier lookups.",
		Site:        model.SiteInvoices,
		Actions: []model.Action{
			model.WaitFor("div[id$='CreateInvoice']", 10000),
			model.Execute(CmdInvoiceFill),
			model.Execute(CmdInvoiceLov),
		},
	},
	{
		ID:          "erp.invoice.validate",
		Label:       "Validate invoice",
		Description: "Watches the validation status cell until it settles and reports the outcome.",
		Site:        model.SiteInvoices,
		Actions: []model.Action{
			model.Execute(CmdInvoiceValidate),
		},
	},
	{
		ID:          "research.bulk_search",
		Label:       "Bulk search scrape",
		Description: "Walks the paginated search results and captures a deduplicated table.",
		Site:        model.SiteResearch,
		Actions: []model.Action{
			model.WaitFor("table.results, div.search-results table", 8000),
			model.Execute(CmdBulkSearchScrape),
		},
	},
	{
		ID:          "research.focus_search",
		Label:       "Focus search box",
		Description: "Places the cursor in the portal search box.",
		Site:        model.SiteResearch,
		Internal:    true,
		Actions: []model.Action{
			model.Click("input[type='search'], input[name='q']"),
		},
	},
}

var builtinRules = []model.RuleDefinition{
	{
		ID:          "jira.capture.filter_table",
		Label:       "Capture filter table",
		Description: "Snapshot the visible filter table into the AP export schema.",
		Site:        model.SiteTracker,
		Enabled:     true,
		Trigger:     model.Trigger{Kind: model.TriggerOnDemand},
		Actions: []model.Action{
			model.WaitFor("table.aui, div[data-testid='issue-table']", 8000),
			model.Execute(CmdJiraFilterCapture),
		},
		Priority: 10,
		Category: model.CategoryDataCapture,
		Builtin:  true,
	},
	{
		ID:          "jira.jql.assist",
		Label:       "JQL assist",
		Description: "Offer the query builder on the advanced search screen.",
		Site:        model.SiteTracker,
		Enabled:     true,
		URLPattern:  "/issues/?jql=",
		Trigger:     model.Trigger{Kind: model.TriggerOnUrlMatch},
		Actions: []model.Action{
			model.Execute(CmdJiraJQLBuild),
		},
		Priority: 20,
		Category: model.CategoryUiEnhancement,
		Builtin:  true,
	},
	{
		ID:          "jira.nav.board_shortcut",
		Label:       "Board shortcut",
		Description: "Adds a shortcut to the active sprint board.",
		Site:        model.SiteTracker,
		Enabled:     false,
		Trigger:     model.Trigger{Kind: model.TriggerOnPageLoad},
		Actions: []model.Action{
			model.Click("a[href*='RapidBoard']"),
		},
		Priority: 40,
		Category: model.CategoryNavigation,
		Builtin:  true,
	},
	{
		ID:          "erp.invoice.autofill",
		Label:       "Invoice autofill",
		Description: "Fill the invoice form when the creation screen appears.",
		Site:        model.SiteInvoices,
		Enabled:     true,
		Trigger:     model.Trigger{Kind: model.TriggerOnElementAppear, Selector: "div[id$='CreateInvoice']"},
		Actions: []model.Action{
			model.Execute(CmdInvoiceFill),
		},
		Priority: 10,
		Category: model.CategoryFormAutomation,
		Builtin:  true,
	},
	{
		ID:          "erp.invoice.status_watch",
		Label:       "Validation status watch",
		Description: "Track invoice validation status after submission.",
		Site:        model.SiteInvoices,
		Enabled:     true,
		Trigger:     model.Trigger{Kind: model.TriggerOnDemand},
		Actions: []model.Action{
			model.Execute(CmdInvoiceValidate),
		},
		Priority: 30,
		Category: model.CategoryValidation,
		Builtin:  true,
	},
	{
		ID:          "erp.invoice.lov_helper",
		Label:       "Supplier LOV helper",
		Description: "Resolve the supplier list-of-values dialog automatically.",
		Site:        model.SiteInvoices,
		Enabled:     true,
		Trigger:     model.Trigger{Kind: model.TriggerOnDemand},
		Actions: []model.Action{
			model.Execute(CmdInvoiceLov),
		},
		Priority: 210,
		Category: model.CategoryFormAutomation,
		Builtin:  true,
	},
	{
		ID:          "research.capture.bulk_search",
		Label:       "Bulk search capture",
		Description: "Scrape every result page into one deduplicated table.",
		Site:        model.SiteResearch,
		Enabled:     true,
		Trigger:     model.Trigger{Kind: model.TriggerOnDemand},
		Actions: []model.Action{
			model.Execute(CmdBulkSearchScrape),
		},
		Priority: 10,
		Category: model.CategoryDataCapture,
		Builtin:  true,
	},
	{
		ID:          "research.ui.wide_tables",
		Label:       "Wide result tables",
		Description: "Let result tables use the full viewport width.",
		Site:        model.SiteResearch,
		Enabled:     false,
		Trigger:     model.Trigger{Kind: model.TriggerOnPageLoad},
		Actions: []model.Action{
			model.Click("button[data-action='expand-table']"),
		},
		Priority: 220,
		Category: model.CategoryUiEnhancement,
		Builtin:  true,
	},
}
