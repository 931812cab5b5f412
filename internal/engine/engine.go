package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync/atomic"

	"github.com/hubworks/sitepilot/internal/events"
	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

// LogLevel controls logging verbosity.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// ParseLogLevel maps a settings token to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LogLevelDebug
	case "info":
		return LogLevelInfo
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// Engine resolves workflows in the registry and runs their actions
// sequentially through an executor. Runs across invocations are
// independent; the registry is the only shared state and is immutable.
type Engine struct {
	logger   *log.Logger
	logLevel atomic.Int32
	bus      *events.Bus
}

// New creates an Engine logging to w.
func New(w io.Writer, logLevel string) *Engine {
	if w == nil {
		w = io.Discard
	}
	e := &Engine{logger: log.New(w, "", log.LstdFlags)}
	e.logLevel.Store(int32(ParseLogLevel(logLevel)))
	return e
}

// SetLogLevel re-applies the verbosity token, typically after a
// settings reload. Safe to call while runs are in flight.
func (e *Engine) SetLogLevel(level string) {
	e.logLevel.Store(int32(ParseLogLevel(level)))
}

// SetEventBus attaches a bus for run/step event publication.
func (e *Engine) SetEventBus(bus *events.Bus) {
	e.bus = bus
}

// ListWorkflows returns the workflow ids for the site in registry order.
func (e *Engine) ListWorkflows(site model.Site) []string {
	return registry.WorkflowIDs(site)
}

// Run executes a workflow through the executor and returns the run
// report. Steps run in order; a step failure never stops the run,
// because later steps are frequently independent diagnostics.
func (e *Engine) Run(ctx context.Context, site model.Site, workflowID string, exec Executor, runContext map[string]any) *model.RunReport {
	report := &model.RunReport{
		WorkflowID:  workflowID,
		Site:        site,
		StartedAtMs: exec.NowMs(),
	}

	workflow, ok := registry.WorkflowByID(site, workflowID)
	if !ok {
		e.log(LogLevelWarn, "run_missing site=%s workflow=%s", site, workflowID)
		now := exec.NowMs()
		report.Steps = []model.RunStepReport{{
			Index:       0,
			ActionKind:  model.ActionExecute,
			Target:      workflowID,
			Status:      model.StatusFailed,
			StartedAtMs: report.StartedAtMs,
			EndedAtMs:   now,
			Detail:      "workflow not found",
		}}
		report.EndedAtMs = now
		report.Status = model.StatusFailed
		report.Error = &model.RunError{
			Code:    model.ErrCodeWorkflowMissing,
			Message: fmt.Sprintf("no workflow %q for site %s", workflowID, site),
		}
		report.Detail = "workflow not found"
		return report
	}

	e.log(LogLevelInfo, "run_start site=%s workflow=%s steps=%d", site, workflowID, len(workflow.Actions))
	e.publish(events.EventRunStarted, map[string]any{
		"site":        string(site),
		"workflow_id": workflowID,
	})

	for i, action := range workflow.Actions {
		step := e.runStep(ctx, i, action, exec, runContext, report)
		report.Steps = append(report.Steps, step)
		e.publish(events.EventStepCompleted, map[string]any{
			"workflow_id": workflowID,
			"index":       i,
			"status":      string(step.Status),
		})
	}

	report.EndedAtMs = exec.NowMs()
	e.finalize(report)

	e.log(LogLevelInfo, "run_done site=%s workflow=%s status=%s artifacts=%d",
		site, workflowID, report.Status, len(report.Artifacts))
	e.publish(events.EventRunCompleted, map[string]any{
		"workflow_id": workflowID,
		"status":      string(report.Status),
	})
	return report
}

// runStep dispatches one action to the executor and records its outcome.
func (e *Engine) runStep(ctx context.Context, index int, action model.Action, exec Executor, runContext map[string]any, report *model.RunReport) model.RunStepReport {
	step := model.RunStepReport{
		Index:       index,
		ActionKind:  action.Kind,
		Target:      action.Target(),
		Status:      model.StatusSuccess,
		StartedAtMs: exec.NowMs(),
	}

	var err error
	switch action.Kind {
	case model.ActionWaitFor:
		var diag string
		diag, err = exec.WaitFor(ctx, action.Selector, action.TimeoutMs)
		step.Detail = diag
	case model.ActionClick:
		err = exec.Click(ctx, action.Selector)
	case model.ActionTypeText:
		err = exec.TypeText(ctx, action.Selector, action.Text)
	case model.ActionExtractTable:
		var rows []model.TableRow
		rows, err = exec.ExtractTable(ctx, action.Selector)
		if err == nil {
			step.Data = rows
			step.Detail = fmt.Sprintf("%d rows", len(rows))
		}
	case model.ActionExecute:
		var result *model.CommandResult
		result, err = exec.ExecuteCommand(ctx, action.Command, runContext)
		if err == nil && result != nil {
			for _, a := range result.Artifacts {
				report.Artifacts = append(report.Artifacts, a)
				e.publish(events.EventArtifactEmitted, map[string]any{
					"workflow_id": report.WorkflowID,
					"name":        a.Name,
				})
			}
			if len(result.Diagnostics) > 0 {
				step.Data = result.Diagnostics
			}
			if result.Status == model.CommandPartial {
				step.Status = model.StatusPartial
				step.Detail = "handler reported partial result"
			}
		}
	default:
		err = NewRuntimeError(model.ErrCodeInputInvalid, "unknown action kind: %s", action.Kind)
	}

	step.EndedAtMs = exec.NowMs()
	if err != nil {
		step.Status = model.StatusFailed
		step.Detail = err.Error()
		e.log(LogLevelWarn, "step_failed workflow=%s index=%d kind=%s code=%s",
			report.WorkflowID, index, action.Kind, ErrorCode(err))
	}
	return step
}

// finalize sets the terminal status from the steps and artifacts:
// failed if any step failed, partial if any step was skipped/partial or
// any artifact is flagged partial, success otherwise. Error is set only
// on failed.
func (e *Engine) finalize(report *model.RunReport) {
	status := model.StatusSuccess
	var firstFailure *model.RunStepReport
	for i := range report.Steps {
		s := &report.Steps[i]
		switch s.Status {
		case model.StatusFailed:
			if firstFailure == nil {
				firstFailure = s
			}
			status = model.WorseStatus(status, model.StatusFailed)
		case model.StatusSkipped, model.StatusPartial:
			status = model.WorseStatus(status, model.StatusPartial)
		}
	}
	if status != model.StatusFailed {
		for _, a := range report.Artifacts {
			if a.Partial {
				status = model.WorseStatus(status, model.StatusPartial)
			}
		}
	}

	report.Status = status
	if status == model.StatusFailed && firstFailure != nil {
		report.Error = &model.RunError{
			Code:    model.ErrCodeExecutorInternal,
			Message: firstFailure.Detail,
		}
		if code := failureCode(firstFailure.Detail); code != "" {
			report.Error.Code = code
		}
		report.Detail = fmt.Sprintf("step %d failed", firstFailure.Index)
	}
}

// failureCode recovers a stable error code embedded in a step detail
// of the form "code: message".
func failureCode(detail string) string {
	known := []string{
		model.ErrCodeSelectorMissing,
		model.ErrCodeSelectorTimeout,
		model.ErrCodeCommandUnsupported,
		model.ErrCodeInputInvalid,
		model.ErrCodeExecutorInternal,
	}
	for _, code := range known {
		if strings.HasPrefix(detail, code+":") || strings.HasPrefix(detail, code+" ") || detail == code {
			return code
		}
	}
	return ""
}

func (e *Engine) publish(eventType events.EventType, data map[string]any) {
	if e.bus != nil {
		e.bus.Publish(eventType, data)
	}
}

func (e *Engine) log(level LogLevel, format string, args ...any) {
	if level < LogLevel(e.logLevel.Load()) {
		return
	}
	levelStr := "INFO"
	switch level {
	case LogLevelDebug:
		levelStr = "DEBUG"
	case LogLevelWarn:
		levelStr = "WARN"
	case LogLevelError:
		levelStr = "ERROR"
	}
	e.logger.Printf("%s engine: %s", levelStr, fmt.Sprintf(format, args...))
}
