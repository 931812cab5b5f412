package engine

import (
	"context"
	"time"

	"github.com/hubworks/sitepilot/internal/model"
)

// Noop is the dry-run executor: every DOM-touching action fails with a
// uniform "action requires executor" error, and time comes from the
// real clock. Running a workflow against it still yields one step
// report per action, which is what dry-run mode is for.
type Noop struct{}

// NewNoop returns the dry-run executor.
func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) NowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}

func (n *Noop) WaitFor(_ context.Context, selector string, _ int64) (string, error) {
	return "", noopErr("wait_for", selector)
}

func (n *Noop) Click(_ context.Context, selector string) error {
	return noopErr("click", selector)
}

func (n *Noop) TypeText(_ context.Context, selector, _ string) error {
	return noopErr("type_text", selector)
}

func (n *Noop) ExtractTable(_ context.Context, selector string) ([]model.TableRow, error) {
	return nil, noopErr("extract_table", selector)
}

func (n *Noop) ExecuteCommand(_ context.Context, commandKey string, _ map[string]any) (*model.CommandResult, error) {
	return nil, noopErr("execute_command", commandKey)
}

func noopErr(op, target string) error {
	return NewRuntimeError(model.ErrCodeExecutorInternal, "action requires executor: %s %s", op, target)
}
