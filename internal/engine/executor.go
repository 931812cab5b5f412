// Package engine sequences workflow actions through a pluggable
// executor and aggregates per-step reports into a run report.
package engine

import (
	"context"
	"fmt"

	"github.com/hubworks/sitepilot/internal/model"
)

// Executor is the capability set a concrete DOM driver implements.
// Every call may suspend; implementations must honor ctx cancellation
// in their polling loops.
type Executor interface {
	// NowMs returns wall-clock milliseconds for report timestamps.
	NowMs() uint64
	// WaitFor polls until an element matches selector or timeoutMs
	// elapses. The returned string is a diagnostic on success.
	WaitFor(ctx context.Context, selector string, timeoutMs int64) (string, error)
	// Click dispatches a synthetic activation on a visible, enabled element.
	Click(ctx context.Context, selector string) error
	// TypeText replaces the element's value so that input/change
	// listeners observe the new value.
	TypeText(ctx context.Context, selector, text string) error
	// ExtractTable snapshots a table as ordered rows keyed by
	// normalized header.
	ExtractTable(ctx context.Context, selector string) ([]model.TableRow, error)
	// ExecuteCommand dispatches a named command handler.
	ExecuteCommand(ctx context.Context, commandKey string, cmdContext map[string]any) (*model.CommandResult, error)
}

// RuntimeError is a structured executor failure carrying a stable code.
type RuntimeError struct {
	Code    string
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewRuntimeError builds a RuntimeError with a formatted message.
func NewRuntimeError(code, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode extracts the stable code from err, defaulting to
// executor.internal for plain errors.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if re, ok := err.(*RuntimeError); ok {
		return re.Code
	}
	return model.ErrCodeExecutorInternal
}
