package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

// invoiceField binds a form input to the prioritized context-key
// aliases that may carry its value.
type invoiceField struct {
	name     string
	selector string
	aliases  []string
}

var invoiceFields = []invoiceField{
	{
		name:     "supplier",
		selector: "input[id$='supplierName::content']",
		aliases:  []string{"supplier", "vendor", "Vendor"},
	},
	{
		name:     "invoiceNumber",
		selector: "input[id$='invoiceNumber::content']",
		aliases:  []string{"invoiceNumber", "invoiceNo", "Invoice"},
	},
	{
		name:     "amount",
		selector: "input[id$='invoiceAmount::content']",
		aliases:  []string{"amountNumeric", "amountRaw", "Amount"},
	},
	{
		name:     "invoiceDate",
		selector: "input[id$='invoiceDate::content']",
		aliases:  []string{"invoiceDate", "date", "Date"},
	},
	{
		name:     "description",
		selector: "textarea[id$='description::content']",
		aliases:  []string{"description", "Description"},
	},
}

const fieldWaitMs = 2500

// FillInvoiceForm fills each invoice input whose context carries a
// recognized key. A missing selector becomes a non-fatal
// selector_missing diagnostic; the handler never fails the run for an
// optional field.
func FillInvoiceForm(ctx context.Context, inv *Invocation) (*model.CommandResult, error) {
	result := model.NewCommandResult(registry.CmdInvoiceFill)

	filled := 0
	for _, field := range invoiceFields {
		value, ok := inv.contextString(field.aliases...)
		if !ok {
			continue
		}

		if _, err := inv.Driver.WaitFor(ctx, field.selector, fieldWaitMs); err != nil {
			result.Diagnostics[field.name] = map[string]any{
				"filled": false,
				"reason": "selector_missing",
			}
			continue
		}
		if err := inv.Driver.TypeText(ctx, field.selector, value); err != nil {
			result.Diagnostics[field.name] = map[string]any{
				"filled": false,
				"reason": err.Error(),
			}
			continue
		}
		result.Diagnostics[field.name] = map[string]any{"filled": true}
		filled++
	}

	result.Diagnostics["filledCount"] = filled
	return result, nil
}

const (
	lovTriggerSelector = "a[id$='supplierName::lovIconId']"
	lovDialogSelector  = "div[role='dialog'] ul[role='listbox'], div.af_inputListOfValues_dropdown"
	lovWaitMs          = 5000
	maxLovOptions      = 10
)

// ResolveLov drives a list-of-values pop-up: click the search trigger,
// wait for the listbox, then click the first visible option whose
// normalized text is non-empty and not "no results".
func ResolveLov(ctx context.Context, inv *Invocation) (*model.CommandResult, error) {
	trigger := lovTriggerSelector
	if s, ok := inv.contextString("lovTrigger"); ok {
		trigger = s
	}

	if err := inv.Driver.Click(ctx, trigger); err != nil {
		return nil, fmt.Errorf("click LOV trigger: %w", err)
	}
	if _, err := inv.Driver.WaitFor(ctx, lovDialogSelector, lovWaitMs); err != nil {
		return nil, fmt.Errorf("%s: LOV dialog never appeared: %w", model.ErrCodeSelectorTimeout, err)
	}

	for i := 1; i <= maxLovOptions; i++ {
		optionSelector := fmt.Sprintf("%s li:nth-of-type(%d)", lovDialogSelector, i)
		text, err := inv.Driver.ReadText(ctx, optionSelector)
		if err != nil {
			break
		}
		normalized := model.CleanText(text)
		if normalized == "" || strings.EqualFold(normalized, "no results") {
			continue
		}
		if err := inv.Driver.Click(ctx, optionSelector); err != nil {
			continue
		}
		result := model.NewCommandResult(registry.CmdInvoiceLov)
		result.Diagnostics["selected"] = normalized
		result.Diagnostics["optionIndex"] = i
		return result, nil
	}

	return nil, fmt.Errorf("%s: no clickable LOV option", model.ErrCodeSelectorMissing)
}
