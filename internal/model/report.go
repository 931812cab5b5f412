package model

// StepStatus is the outcome of a single step or a whole run.
type StepStatus string

const (
	StatusSuccess StepStatus = "success"
	StatusPartial StepStatus = "partial"
	StatusSkipped StepStatus = "skipped"
	StatusFailed  StepStatus = "failed"
)

// Severity ordering for run aggregation: success < partial < skipped < failed.
var statusSeverity = map[StepStatus]int{
	StatusSuccess: 0,
	StatusPartial: 1,
	StatusSkipped: 2,
	StatusFailed:  3,
}

// WorseStatus returns the worse of the two statuses under the
// aggregation order.
func WorseStatus(a, b StepStatus) StepStatus {
	if statusSeverity[b] > statusSeverity[a] {
		return b
	}
	return a
}

// RunError carries a stable error code with a human-readable message.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Stable error codes surfaced in reports and bridge responses.
const (
	ErrCodeSelectorMissing    = "selector.missing"
	ErrCodeSelectorTimeout    = "selector.timeout"
	ErrCodeWorkflowMissing    = "workflow.missing"
	ErrCodeCommandUnsupported = "command.unsupported"
	ErrCodeValidationUnknown  = "validation.unknown"
	ErrCodeInputInvalid       = "input.invalid"
	ErrCodeExecutorInternal   = "executor.internal"
)

// RunStepReport records the outcome of one action of a run.
type RunStepReport struct {
	Index       int        `json:"index"`
	ActionKind  ActionKind `json:"actionKind"`
	Target      string     `json:"target,omitempty"`
	Status      StepStatus `json:"status"`
	StartedAtMs uint64     `json:"startedAtMs"`
	EndedAtMs   uint64     `json:"endedAtMs"`
	Detail      string     `json:"detail,omitempty"`
	Data        any        `json:"data,omitempty"`
}

// ArtifactKind discriminates artifact payload shapes.
type ArtifactKind string

const (
	ArtifactTable ArtifactKind = "table"
	ArtifactAlert ArtifactKind = "alert"
)

// ArtifactMeta identifies where and when an artifact was produced.
type ArtifactMeta struct {
	Site          string `json:"site"`
	WorkflowID    string `json:"workflowId"`
	GeneratedAtMs uint64 `json:"generatedAtMs"`
}

// RunArtifact is a typed result payload emitted by a command handler.
// The JSON shape is a wire contract.
type RunArtifact struct {
	Kind    ArtifactKind `json:"kind"`
	Name    string       `json:"name"`
	Columns []string     `json:"columns"`
	Rows    [][]string   `json:"rows"`
	Meta    ArtifactMeta `json:"meta"`
	Partial bool         `json:"partial,omitempty"`
}

// RunReport aggregates a workflow run. Invariant: Status is failed iff
// Error is present, and matches the worst step status.
type RunReport struct {
	WorkflowID  string          `json:"workflowId"`
	Site        Site            `json:"site"`
	Status      StepStatus      `json:"status"`
	Detail      string          `json:"detail,omitempty"`
	StartedAtMs uint64          `json:"startedAtMs"`
	EndedAtMs   uint64          `json:"endedAtMs"`
	Steps       []RunStepReport `json:"steps"`
	Artifacts   []RunArtifact   `json:"artifacts"`
	Error       *RunError       `json:"error,omitempty"`
}
