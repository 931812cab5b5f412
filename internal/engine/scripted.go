package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hubworks/sitepilot/internal/model"
)

// ScriptedCall records one executor invocation for later assertion.
type ScriptedCall struct {
	Op       string
	Selector string
	Text     string
	Command  string
}

// Scripted is a deterministic record-and-replay executor double.
// Responses are queued per selector/command; unqueued calls succeed
// with zero values. The clock is a counter advanced by TickMs per call
// so step timings are reproducible.
type Scripted struct {
	mu     sync.Mutex
	now    uint64
	TickMs uint64

	Calls []ScriptedCall

	waitErrs   map[string]error
	waitDiags  map[string]string
	clickErrs  map[string]error
	typeErrs   map[string]error
	tables     map[string][]model.TableRow
	tableErrs  map[string]error
	cmdResults map[string]*model.CommandResult
	cmdErrs    map[string]error
	readTexts  map[string][]string
	readErrs   map[string]error
	readIdx    map[string]int
}

// NewScripted returns an empty scripted executor with a 10ms tick.
func NewScripted() *Scripted {
	return &Scripted{
		TickMs:     10,
		waitErrs:   make(map[string]error),
		waitDiags:  make(map[string]string),
		clickErrs:  make(map[string]error),
		typeErrs:   make(map[string]error),
		tables:     make(map[string][]model.TableRow),
		tableErrs:  make(map[string]error),
		cmdResults: make(map[string]*model.CommandResult),
		cmdErrs:    make(map[string]error),
		readTexts:  make(map[string][]string),
		readErrs:   make(map[string]error),
		readIdx:    make(map[string]int),
	}
}

// StubWaitFor scripts the wait_for outcome for selector.
func (s *Scripted) StubWaitFor(selector, diag string, err error) {
	s.waitDiags[selector] = diag
	s.waitErrs[selector] = err
}

// StubClick scripts the click outcome for selector.
func (s *Scripted) StubClick(selector string, err error) {
	s.clickErrs[selector] = err
}

// StubTypeText scripts the type_text outcome for selector.
func (s *Scripted) StubTypeText(selector string, err error) {
	s.typeErrs[selector] = err
}

// StubTable scripts the extract_table rows for selector.
func (s *Scripted) StubTable(selector string, rows []model.TableRow, err error) {
	s.tables[selector] = rows
	s.tableErrs[selector] = err
}

// StubCommand scripts the execute_command result for a key.
func (s *Scripted) StubCommand(key string, result *model.CommandResult, err error) {
	s.cmdResults[key] = result
	s.cmdErrs[key] = err
}

// StubReadText scripts the visible text a handler reads for selector.
// Successive ReadText calls consume the queue and the last entry
// repeats, so polling loops can observe text changing over time.
func (s *Scripted) StubReadText(selector string, texts ...string) {
	s.readTexts[selector] = texts
}

// StubReadTextErr makes ReadText fail for selector.
func (s *Scripted) StubReadTextErr(selector string, err error) {
	s.readErrs[selector] = err
}

func (s *Scripted) record(call ScriptedCall) {
	s.Calls = append(s.Calls, call)
	s.now += s.TickMs
}

func (s *Scripted) NowMs() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now += s.TickMs
	return s.now
}

func (s *Scripted) WaitFor(_ context.Context, selector string, _ int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "wait_for", Selector: selector})
	if err := s.waitErrs[selector]; err != nil {
		return "", err
	}
	if diag, ok := s.waitDiags[selector]; ok {
		return diag, nil
	}
	return fmt.Sprintf("matched %s", selector), nil
}

func (s *Scripted) Click(_ context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "click", Selector: selector})
	return s.clickErrs[selector]
}

func (s *Scripted) TypeText(_ context.Context, selector, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "type_text", Selector: selector, Text: text})
	return s.typeErrs[selector]
}

func (s *Scripted) ExtractTable(_ context.Context, selector string) ([]model.TableRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "extract_table", Selector: selector})
	if err := s.tableErrs[selector]; err != nil {
		return nil, err
	}
	rows := s.tables[selector]
	out := make([]model.TableRow, len(rows))
	copy(out, rows)
	return out, nil
}

// ReadText returns the next scripted text for selector. An unscripted
// selector fails, matching a missing element on a real page.
func (s *Scripted) ReadText(_ context.Context, selector string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "read_text", Selector: selector})
	if err := s.readErrs[selector]; err != nil {
		return "", err
	}
	texts, ok := s.readTexts[selector]
	if !ok || len(texts) == 0 {
		return "", fmt.Errorf("no element: %s", selector)
	}
	idx := s.readIdx[selector]
	if idx >= len(texts) {
		idx = len(texts) - 1
	}
	s.readIdx[selector]++
	return texts[idx], nil
}

// Sleep advances the scripted clock without waiting.
func (s *Scripted) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "sleep"})
	s.now += uint64(d.Milliseconds())
	return nil
}

func (s *Scripted) ExecuteCommand(_ context.Context, commandKey string, _ map[string]any) (*model.CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(ScriptedCall{Op: "execute_command", Command: commandKey})
	if err := s.cmdErrs[commandKey]; err != nil {
		return nil, err
	}
	if res, ok := s.cmdResults[commandKey]; ok {
		return res, nil
	}
	return model.NewCommandResult(commandKey), nil
}
