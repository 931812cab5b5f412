package command

import (
	"context"
	"fmt"

	"github.com/hubworks/sitepilot/internal/engine"
	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

const (
	validationCellSelector = "span[id$='validationStatus'], td.validation-status"
	validationDeadlineMs   = 12000
	// ValidationArtifact names the Alert artifact the handler emits.
	ValidationArtifact = "erp.invoice.validation"
)

// ValidateInvoice polls the designated status cell with exponential
// backoff (200ms initial, x1.6, capped at 1.2s, 12s overall deadline),
// classifies its text, and emits an Alert artifact with the outcome and
// attempt count. A cell that cannot be read yet counts as not rendered
// and keeps polling; only a cell still absent at the deadline fails.
// An unknown outcome is conveyed as a result, not a failure.
func ValidateInvoice(ctx context.Context, inv *Invocation) (*model.CommandResult, error) {
	selector := validationCellSelector
	if s, ok := inv.contextString("statusSelector"); ok {
		selector = s
	}

	backoff := engine.ValidationBackoff()
	start := inv.Driver.NowMs()
	attempts := 0
	outcome := OutcomeUnknown
	lastText := ""

	for {
		attempts++
		text, err := inv.Driver.ReadText(ctx, selector)
		if err != nil {
			if inv.Driver.NowMs()-start >= validationDeadlineMs {
				return nil, fmt.Errorf("%s: validation status cell: %w", model.ErrCodeSelectorMissing, err)
			}
			if serr := inv.Driver.Sleep(ctx, backoff.Next()); serr != nil {
				return nil, fmt.Errorf("validation poll cancelled: %w", serr)
			}
			continue
		}
		lastText = model.CleanText(text)
		outcome = ClassifyValidationStatus(lastText)
		if outcome != OutcomeUnknown {
			break
		}
		if inv.Driver.NowMs()-start >= validationDeadlineMs {
			break
		}
		if err := inv.Driver.Sleep(ctx, backoff.Next()); err != nil {
			return nil, fmt.Errorf("validation poll cancelled: %w", err)
		}
	}

	result := model.NewCommandResult(registry.CmdInvoiceValidate)
	result.AddArtifact(model.RunArtifact{
		Kind:    model.ArtifactAlert,
		Name:    ValidationArtifact,
		Columns: []string{"outcome", "attempts", "statusText"},
		Rows:    [][]string{{string(outcome), fmt.Sprintf("%d", attempts), lastText}},
		Meta:    inv.meta(),
		Partial: outcome == OutcomeUnknown,
	})
	result.Diagnostics["outcome"] = string(outcome)
	result.Diagnostics["attempts"] = attempts
	if outcome == OutcomeUnknown {
		result.Diagnostics["code"] = model.ErrCodeValidationUnknown
	}
	return result, nil
}
