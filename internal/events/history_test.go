package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubworks/sitepilot/internal/model"
)

func sampleReport(status model.StepStatus) *model.RunReport {
	report := &model.RunReport{
		WorkflowID:  "jira.filter_table.export",
		Site:        model.SiteTracker,
		Status:      status,
		StartedAtMs: 1000,
		EndedAtMs:   1500,
		Steps:       []model.RunStepReport{{Index: 0, Status: status}},
	}
	if status == model.StatusFailed {
		report.Error = &model.RunError{Code: model.ErrCodeWorkflowMissing, Message: "gone"}
	}
	return report
}

func TestHistoryRecordAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	log, err := NewHistoryLog(path, 0)
	require.NoError(t, err)
	defer log.Close()

	require.NoError(t, log.Record("run_0000000001_abcd1234", sampleReport(model.StatusSuccess)))
	require.NoError(t, log.Record("run_0000000002_abcd1234", sampleReport(model.StatusFailed)))

	entries, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "run_0000000001_abcd1234", entries[0].RunID)
	assert.Equal(t, model.StatusSuccess, entries[0].Status)
	assert.Equal(t, uint64(500), entries[0].DurationMs)
	assert.Equal(t, "", entries[0].ErrorCode)

	assert.Equal(t, model.StatusFailed, entries[1].Status)
	assert.Equal(t, model.ErrCodeWorkflowMissing, entries[1].ErrorCode)
}

func TestHistorySkipsTornLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	log, err := NewHistoryLog(path, 0)
	require.NoError(t, err)

	require.NoError(t, log.Record("run_0000000001_abcd1234", sampleReport(model.StatusSuccess)))
	require.NoError(t, log.Close())

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"timestamp":"2026-08-3`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	log, err = NewHistoryLog(path, 0)
	require.NoError(t, err)
	defer log.Close()

	entries, err := log.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestHistoryRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")

	// Tiny max size forces a rotation on the second entry.
	log, err := NewHistoryLog(path, 200)
	require.NoError(t, err)
	defer log.Close()

	require.NoError(t, log.Record("run_0000000001_abcd1234", sampleReport(model.StatusSuccess)))
	require.NoError(t, log.Record("run_0000000002_abcd1234", sampleReport(model.StatusSuccess)))

	archived, err := os.ReadDir(filepath.Join(dir, "archive"))
	require.NoError(t, err)
	assert.NotEmpty(t, archived)

	entries, err := log.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 1, "active log holds only the post-rotation entry")
}

func TestHistoryPruneKeepsRecentArchives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.jsonl")
	log, err := NewHistoryLog(path, 0)
	require.NoError(t, err)
	defer log.Close()

	// No archive directory yet; pruning is a no-op.
	require.NoError(t, log.Prune(30))

	archive := filepath.Join(dir, "archive")
	require.NoError(t, os.MkdirAll(archive, 0o755))
	fresh := filepath.Join(archive, "history.jsonl.20260830T000000")
	require.NoError(t, os.WriteFile(fresh, []byte("{}\n"), 0o644))

	require.NoError(t, log.Prune(30))
	_, err = os.Stat(fresh)
	assert.NoError(t, err, "recent archives survive pruning")

	require.NoError(t, log.Prune(0), "zero retention disables pruning")
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}
