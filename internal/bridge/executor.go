package bridge

import (
	"context"

	"github.com/hubworks/sitepilot/internal/command"
	"github.com/hubworks/sitepilot/internal/engine"
	"github.com/hubworks/sitepilot/internal/model"
)

// CommandExecutor adapts a DOM driver plus the command registry into
// the engine's executor interface. DOM actions delegate straight to
// the driver; execute_command builds an invocation and dispatches into
// the handler table.
type CommandExecutor struct {
	driver     command.Driver
	commands   *command.Registry
	site       model.Site
	workflowID string
}

// NewCommandExecutor wires a driver and command registry for one run.
func NewCommandExecutor(driver command.Driver, commands *command.Registry, site model.Site, workflowID string) *CommandExecutor {
	return &CommandExecutor{driver: driver, commands: commands, site: site, workflowID: workflowID}
}

var _ engine.Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) NowMs() uint64 { return e.driver.NowMs() }

func (e *CommandExecutor) WaitFor(ctx context.Context, selector string, timeoutMs int64) (string, error) {
	return e.driver.WaitFor(ctx, selector, timeoutMs)
}

func (e *CommandExecutor) Click(ctx context.Context, selector string) error {
	return e.driver.Click(ctx, selector)
}

func (e *CommandExecutor) TypeText(ctx context.Context, selector, text string) error {
	return e.driver.TypeText(ctx, selector, text)
}

func (e *CommandExecutor) ExtractTable(ctx context.Context, selector string) ([]model.TableRow, error) {
	return e.driver.ExtractTable(ctx, selector)
}

func (e *CommandExecutor) ExecuteCommand(ctx context.Context, key string, cmdContext map[string]any) (*model.CommandResult, error) {
	inv := &command.Invocation{
		Site:       e.site,
		WorkflowID: e.workflowID,
		Context:    cmdContext,
		Driver:     e.driver,
	}
	return e.commands.Dispatch(ctx, key, inv)
}
