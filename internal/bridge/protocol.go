// Package bridge implements the host-bridge messaging surface: command
// envelopes over a Unix domain socket with length-prefixed JSON frames.
package bridge

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"

	"github.com/hubworks/sitepilot/internal/model"
)

// DefaultSocketName is the conventional socket filename inside the
// runtime directory.
const DefaultSocketName = "bridge.sock"

// 10MB safety limit per frame.
const maxFrameSize = 10 * 1024 * 1024

// Response answers one envelope. Error carries the stable code from
// the run-error taxonomy.
type Response struct {
	ID     string          `json:"id"`
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *model.RunError `json:"error,omitempty"`
}

// DetectSitePayload asks which site a URL belongs to.
type DetectSitePayload struct {
	URL string `json:"url"`
}

// DetectSiteResult carries the site token, or "unsupported".
type DetectSiteResult struct {
	Site string `json:"site"`
}

// ListWorkflowsPayload asks for the workflow ids of a site.
type ListWorkflowsPayload struct {
	Site model.Site `json:"site"`
}

// ListWorkflowsResult lists workflow ids in registry order.
type ListWorkflowsResult struct {
	WorkflowIDs []string `json:"workflowIds"`
}

// RunWorkflowPayload requests a workflow run.
type RunWorkflowPayload struct {
	Site       model.Site     `json:"site"`
	WorkflowID string         `json:"workflowId"`
	Context    map[string]any `json:"context,omitempty"`
}

// CaptureTablePayload requests a one-shot table extraction.
type CaptureTablePayload struct {
	Site     model.Site `json:"site"`
	Selector string     `json:"selector"`
}

// CaptureTableResult returns the extracted rows.
type CaptureTableResult struct {
	Rows []model.TableRow `json:"rows"`
}

func successResponse(id string, result any) *Response {
	resp := &Response{ID: id, OK: true}
	if result != nil {
		raw, _ := json.Marshal(result)
		resp.Result = raw
	}
	return resp
}

func errorResponse(id, code, message string) *Response {
	return &Response{ID: id, OK: false, Error: &model.RunError{Code: code, Message: message}}
}

// WriteFrame writes a length-prefixed JSON frame to the connection.
// Format: [4-byte BigEndian length][JSON payload]
func WriteFrame(conn net.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}

	length := uint32(len(data))
	if err := binary.Write(conn, binary.BigEndian, length); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	// io.Copy guarantees all bytes are written on short writes.
	if _, err := io.Copy(conn, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads a length-prefixed JSON frame from the connection.
func ReadFrame(conn net.Conn, v any) error {
	var length uint32
	if err := binary.Read(conn, binary.BigEndian, &length); err != nil {
		return fmt.Errorf("read frame length: %w", err)
	}

	if length > maxFrameSize {
		return fmt.Errorf("frame too large: %d bytes", length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(conn, buf); err != nil {
		return fmt.Errorf("read frame payload: %w", err)
	}

	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("unmarshal frame: %w", err)
	}
	return nil
}
