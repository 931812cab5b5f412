package command

import (
	"context"
	"time"

	"github.com/hubworks/sitepilot/internal/engine"
	"github.com/hubworks/sitepilot/internal/model"
)

// NoopDriver is the dry-run DOM driver: every page interaction fails
// with a stable error, while the clock and sleeps are real so handler
// deadlines still behave.
type NoopDriver struct{}

var _ Driver = NoopDriver{}

func (NoopDriver) NowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}

func (NoopDriver) WaitFor(_ context.Context, selector string, _ int64) (string, error) {
	return "", engine.NewRuntimeError(model.ErrCodeExecutorInternal, "action requires driver: wait_for %s", selector)
}

func (NoopDriver) Click(_ context.Context, selector string) error {
	return engine.NewRuntimeError(model.ErrCodeExecutorInternal, "action requires driver: click %s", selector)
}

func (NoopDriver) TypeText(_ context.Context, selector, _ string) error {
	return engine.NewRuntimeError(model.ErrCodeExecutorInternal, "action requires driver: type_text %s", selector)
}

func (NoopDriver) ExtractTable(_ context.Context, selector string) ([]model.TableRow, error) {
	return nil, engine.NewRuntimeError(model.ErrCodeExecutorInternal, "action requires driver: extract_table %s", selector)
}

func (NoopDriver) ReadText(_ context.Context, selector string) (string, error) {
	return "", engine.NewRuntimeError(model.ErrCodeExecutorInternal, "action requires driver: read_text %s", selector)
}

func (NoopDriver) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
