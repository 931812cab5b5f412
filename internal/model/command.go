package model

// CommandStatus is the envelope status of a handler result.
type CommandStatus string

const (
	CommandSuccess CommandStatus = "success"
	CommandPartial CommandStatus = "partial"
)

// CommandResult is the envelope every command handler returns:
// { command, status, artifacts, diagnostics }.
type CommandResult struct {
	Command     string         `json:"command"`
	Status      CommandStatus  `json:"status"`
	Artifacts   []RunArtifact  `json:"artifacts"`
	Diagnostics map[string]any `json:"diagnostics,omitempty"`
}

// NewCommandResult returns a success envelope for the command key.
func NewCommandResult(command string) *CommandResult {
	return &CommandResult{
		Command:     command,
		Status:      CommandSuccess,
		Diagnostics: make(map[string]any),
	}
}

// AddArtifact appends an artifact, marking the envelope partial when
// the artifact itself is partial.
func (r *CommandResult) AddArtifact(a RunArtifact) {
	r.Artifacts = append(r.Artifacts, a)
	if a.Partial {
		r.Status = CommandPartial
	}
}
