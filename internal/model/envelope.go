package model

import (
	"encoding/json"
	"fmt"
)

// SchemaVersion is the current host-bridge envelope version.
const SchemaVersion uint16 = 1

// EnvelopeTarget names the extension surface a message is addressed to.
type EnvelopeTarget string

const (
	TargetBackground EnvelopeTarget = "background"
	TargetContent    EnvelopeTarget = "content"
	TargetSidePanel  EnvelopeTarget = "side_panel"
	TargetPopup      EnvelopeTarget = "popup"
)

var validTargets = map[EnvelopeTarget]bool{
	TargetBackground: true,
	TargetContent:    true,
	TargetSidePanel:  true,
	TargetPopup:      true,
}

// CommandType names the operation an envelope requests.
type CommandType string

const (
	CommandDetectSite    CommandType = "detect_site"
	CommandListWorkflows CommandType = "list_workflows"
	CommandRunWorkflow   CommandType = "run_workflow"
	CommandCaptureTable  CommandType = "capture_table"
)

var validCommandTypes = map[CommandType]bool{
	CommandDetectSite:    true,
	CommandListWorkflows: true,
	CommandRunWorkflow:   true,
	CommandCaptureTable:  true,
}

// Envelope is the host-bridge message frame.
type Envelope struct {
	ID            string          `json:"id"`
	SchemaVersion uint16          `json:"schema_version"`
	Target        EnvelopeTarget  `json:"target"`
	CommandType   CommandType     `json:"command_type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope builds an envelope with a fresh id and the current schema
// version, marshalling payload when non-nil.
func NewEnvelope(target EnvelopeTarget, commandType CommandType, payload any) (*Envelope, error) {
	env := &Envelope{
		ID:            GenerateID(IDKindEnvelope),
		SchemaVersion: SchemaVersion,
		Target:        target,
		CommandType:   commandType,
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		env.Payload = data
	}
	return env, nil
}

// Validate checks the envelope's closed-set fields.
func (e *Envelope) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("envelope id must not be empty")
	}
	if e.SchemaVersion != SchemaVersion {
		return fmt.Errorf("schema version mismatch: got %d, want %d", e.SchemaVersion, SchemaVersion)
	}
	if !validTargets[e.Target] {
		return fmt.Errorf("unknown envelope target: %q", e.Target)
	}
	if !validCommandTypes[e.CommandType] {
		return fmt.Errorf("unknown command type: %q", e.CommandType)
	}
	return nil
}
