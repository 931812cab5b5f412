package command

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubworks/sitepilot/internal/engine"
	"github.com/hubworks/sitepilot/internal/model"
)

func TestValidateInvoiceSettles(t *testing.T) {
	driver := engine.NewScripted()
	driver.StubReadText(validationCellSelector, "Processing", "Processing", "Validated")

	result, err := ValidateInvoice(context.Background(), invocation(driver, nil))
	require.NoError(t, err)

	assert.Equal(t, model.CommandSuccess, result.Status)
	assert.Equal(t, "validated", result.Diagnostics["outcome"])
	assert.Equal(t, 3, result.Diagnostics["attempts"])

	require.Len(t, result.Artifacts, 1)
	artifact := result.Artifacts[0]
	assert.Equal(t, model.ArtifactAlert, artifact.Kind)
	assert.Equal(t, ValidationArtifact, artifact.Name)
	assert.Equal(t, []string{"outcome", "attempts", "statusText"}, artifact.Columns)
	assert.False(t, artifact.Partial)
	require.Len(t, artifact.Rows, 1)
	assert.Equal(t, "validated", artifact.Rows[0][0])
	assert.Equal(t, "Validated", artifact.Rows[0][2])
}

func TestValidateInvoiceNeedsRevalidation(t *testing.T) {
	driver := engine.NewScripted()
	driver.StubReadText(validationCellSelector, "Needs Revalidation")

	result, err := ValidateInvoice(context.Background(), invocation(driver, nil))
	require.NoError(t, err)
	assert.Equal(t, "needs-revalidated", result.Diagnostics["outcome"])
	assert.Equal(t, 1, result.Diagnostics["attempts"])
}

func TestValidateInvoiceDeadlineExpires(t *testing.T) {
	driver := engine.NewScripted()
	driver.StubReadText(validationCellSelector, "Processing")

	result, err := ValidateInvoice(context.Background(), invocation(driver, nil))
	require.NoError(t, err, "an unknown outcome is a result, not a failure")

	assert.Equal(t, model.CommandPartial, result.Status)
	assert.Equal(t, "unknown", result.Diagnostics["outcome"])
	assert.Equal(t, model.ErrCodeValidationUnknown, result.Diagnostics["code"])
	require.Len(t, result.Artifacts, 1)
	assert.True(t, result.Artifacts[0].Partial)
}

func TestValidateInvoiceMissingCell(t *testing.T) {
	driver := engine.NewScripted()

	_, err := ValidateInvoice(context.Background(), invocation(driver, nil))
	require.Error(t, err, "a cell still absent at the deadline is a failure")
	assert.Contains(t, err.Error(), model.ErrCodeSelectorMissing)
}

// lateCellDriver fails the first few reads, standing in for a status
// cell that renders a moment after submission.
type lateCellDriver struct {
	*engine.Scripted
	misses int
}

func (d *lateCellDriver) ReadText(ctx context.Context, selector string) (string, error) {
	if d.misses > 0 {
		d.misses--
		return "", fmt.Errorf("no element: %s", selector)
	}
	return d.Scripted.ReadText(ctx, selector)
}

func TestValidateInvoiceCellRendersLate(t *testing.T) {
	scripted := engine.NewScripted()
	scripted.StubReadText(validationCellSelector, "Validated")
	driver := &lateCellDriver{Scripted: scripted, misses: 2}

	result, err := ValidateInvoice(context.Background(), invocation(driver, nil))
	require.NoError(t, err)

	assert.Equal(t, model.CommandSuccess, result.Status)
	assert.Equal(t, "validated", result.Diagnostics["outcome"])
	assert.Equal(t, 3, result.Diagnostics["attempts"])
}

func TestValidateInvoiceSelectorOverride(t *testing.T) {
	driver := engine.NewScripted()
	driver.StubReadText("td.custom-status", "Validated")

	result, err := ValidateInvoice(context.Background(), invocation(driver, map[string]any{
		"statusSelector": "td.custom-status",
	}))
	require.NoError(t, err)
	assert.Equal(t, "validated", result.Diagnostics["outcome"])
}
