// Package command implements the named side-effecting operations the
// Execute action dispatches into. The handler table is a single map
// from dotted key to handler, so adding workflows never touches the
// engine.
package command

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hubworks/sitepilot/internal/model"
	"github.com/hubworks/sitepilot/internal/registry"
)

// Driver is the DOM surface handlers operate on: the executor
// capability set minus execute_command, plus element text reads and
// cancellable sleeps for polling loops.
type Driver interface {
	NowMs() uint64
	WaitFor(ctx context.Context, selector string, timeoutMs int64) (string, error)
	Click(ctx context.Context, selector string) error
	TypeText(ctx context.Context, selector, text string) error
	ExtractTable(ctx context.Context, selector string) ([]model.TableRow, error)
	ReadText(ctx context.Context, selector string) (string, error)
	Sleep(ctx context.Context, d time.Duration) error
}

// Invocation carries everything a handler may consult.
type Invocation struct {
	Site       model.Site
	WorkflowID string
	Context    map[string]any
	Driver     Driver
}

// contextString pulls the first present string value among alias keys.
func (inv *Invocation) contextString(aliases ...string) (string, bool) {
	for _, key := range aliases {
		if v, ok := inv.Context[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

func (inv *Invocation) meta() model.ArtifactMeta {
	return model.ArtifactMeta{
		Site:          string(inv.Site),
		WorkflowID:    inv.WorkflowID,
		GeneratedAtMs: inv.Driver.NowMs(),
	}
}

// Handler is a named command implementation.
type Handler func(ctx context.Context, inv *Invocation) (*model.CommandResult, error)

// Registry maps stable dotted command keys to handlers.
type Registry struct {
	handlers map[string]Handler
}

// NewRegistry returns a registry with every built-in handler installed.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	r.Register(registry.CmdJiraFilterCapture, CaptureFilterTable)
	r.Register(registry.CmdJiraJQLBuild, BuildJQLQuery)
	r.Register(registry.CmdInvoiceFill, FillInvoiceForm)
	r.Register(registry.CmdInvoiceLov, ResolveLov)
	r.Register(registry.CmdInvoiceValidate, ValidateInvoice)
	r.Register(registry.CmdBulkSearchScrape, ScrapeBulkSearch)
	return r
}

// Register installs a handler under key, replacing any previous one.
func (r *Registry) Register(key string, h Handler) {
	r.handlers[key] = h
}

// Keys returns the registered command keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Dispatch invokes the handler for key. Unknown keys fail with the
// command.unsupported code.
func (r *Registry) Dispatch(ctx context.Context, key string, inv *Invocation) (*model.CommandResult, error) {
	h, ok := r.handlers[key]
	if !ok {
		return nil, fmt.Errorf("%s: unsupported command: %s", model.ErrCodeCommandUnsupported, key)
	}
	return h(ctx, inv)
}
