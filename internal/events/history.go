package events

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hubworks/sitepilot/internal/model"
)

const (
	// HistoryFileExtension is the run-history log extension.
	HistoryFileExtension = ".jsonl"
	// DefaultMaxHistorySize caps a single history file at 16MB.
	DefaultMaxHistorySize = 16 * 1024 * 1024
	archiveDir            = "archive"
)

// HistoryEntry is one recorded workflow run.
type HistoryEntry struct {
	Timestamp  time.Time        `json:"timestamp"`
	RunID      string           `json:"run_id"`
	Site       string           `json:"site"`
	WorkflowID string           `json:"workflow_id"`
	Status     model.StepStatus `json:"status"`
	Steps      int              `json:"steps"`
	Artifacts  int              `json:"artifacts"`
	DurationMs uint64           `json:"duration_ms"`
	ErrorCode  string           `json:"error_code,omitempty"`
}

// HistoryLog is an append-only JSONL log of workflow runs with size
// rotation and day-based retention.
type HistoryLog struct {
	mu          sync.Mutex
	file        *os.File
	currentSize int64
	maxSize     int64
	path        string
}

// NewHistoryLog opens (or creates) the run-history log at path.
func NewHistoryLog(path string, maxSize int64) (*HistoryLog, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxHistorySize
	}
	h := &HistoryLog{path: path, maxSize: maxSize}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	if err := h.openFile(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *HistoryLog) openFile() error {
	file, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat history log: %w", err)
	}
	h.file = file
	h.currentSize = stat.Size()
	return nil
}

// Record appends a run report summary to the log.
func (h *HistoryLog) Record(runID string, report *model.RunReport) error {
	entry := HistoryEntry{
		Timestamp:  time.Now().UTC(),
		RunID:      runID,
		Site:       string(report.Site),
		WorkflowID: report.WorkflowID,
		Status:     report.Status,
		Steps:      len(report.Steps),
		Artifacts:  len(report.Artifacts),
		DurationMs: report.EndedAtMs - report.StartedAtMs,
	}
	if report.Error != nil {
		entry.ErrorCode = report.Error.Code
	}
	return h.writeEntry(&entry)
}

func (h *HistoryLog) writeEntry(entry *HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal history entry: %w", err)
	}
	data = append(data, '\n')

	if h.currentSize+int64(len(data)) > h.maxSize {
		if err := h.rotate(); err != nil {
			return err
		}
	}

	n, err := h.file.Write(data)
	if err != nil {
		return fmt.Errorf("write history entry: %w", err)
	}
	h.currentSize += int64(n)
	return nil
}

// rotate moves the current file into archive/ with a timestamp suffix
// and reopens a fresh log. Caller holds the mutex.
func (h *HistoryLog) rotate() error {
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("close history log for rotation: %w", err)
	}

	dir := filepath.Join(filepath.Dir(h.path), archiveDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	base := filepath.Base(h.path)
	stamp := time.Now().UTC().Format("20060102T150405")
	archived := filepath.Join(dir, fmt.Sprintf("%s.%s", base, stamp))
	if err := os.Rename(h.path, archived); err != nil {
		return fmt.Errorf("archive history log: %w", err)
	}

	return h.openFile()
}

// Prune removes archived history files older than retentionDays.
func (h *HistoryLog) Prune(retentionDays uint16) error {
	if retentionDays == 0 {
		return nil
	}
	cutoff := time.Now().Add(-time.Duration(retentionDays) * 24 * time.Hour)

	dir := filepath.Join(filepath.Dir(h.path), archiveDir)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read archive directory: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, e.Name()))
		}
	}
	return nil
}

// ReadAll returns every entry in the active log, oldest first.
func (h *HistoryLog) ReadAll() ([]HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := os.ReadFile(h.path)
	if err != nil {
		return nil, fmt.Errorf("read history log: %w", err)
	}
	var entries []HistoryEntry
	for _, line := range splitLines(data) {
		if len(line) == 0 {
			continue
		}
		var entry HistoryEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			// A torn last line can happen after a crash; skip it.
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func splitLines(data []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			lines = append(lines, data[start:i])
			start = i + 1
		}
	}
	if start < len(data) {
		lines = append(lines, data[start:])
	}
	return lines
}

// Close releases the underlying file handle.
func (h *HistoryLog) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.file != nil {
		return h.file.Close()
	}
	return nil
}
