package command

import (
	"context"
	"fmt"
	"time"

	"github.com/hubworks/sitepilot/internal/aptransform"
	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

const (
	filterTableSelector = "table.aui, div[data-testid='issue-table']"
	filterTableWaitMs   = 8000
	// FilterTableArtifact is the stable name of the AP export artifact.
	FilterTableArtifact = "jira.filter_table.ap"
)

// CaptureFilterTable snapshots the visible Jira filter table and runs
// the AP transform over it, emitting exactly one Table artifact with
// the 29-column export schema.
func CaptureFilterTable(ctx context.Context, inv *Invocation) (*model.CommandResult, error) {
	if _, err := inv.Driver.WaitFor(ctx, filterTableSelector, filterTableWaitMs); err != nil {
		return nil, fmt.Errorf("%s: filter table never appeared: %w", model.ErrCodeSelectorMissing, err)
	}

	rows, err := inv.Driver.ExtractTable(ctx, filterTableSelector)
	if err != nil {
		return nil, fmt.Errorf("snapshot filter table: %w", err)
	}

	today, ok := inv.contextString("today")
	if !ok {
		today = time.Now().Format("01022006")
	}

	columns, outRows := aptransform.Transform(rows, today)

	result := model.NewCommandResult(registry.CmdJiraFilterCapture)
	result.AddArtifact(model.RunArtifact{
		Kind:    model.ArtifactTable,
		Name:    FilterTableArtifact,
		Columns: columns,
		Rows:    outRows,
		Meta:    inv.meta(),
	})
	result.Diagnostics["inputRows"] = len(rows)
	result.Diagnostics["outputRows"] = len(outRows)
	return result, nil
}
