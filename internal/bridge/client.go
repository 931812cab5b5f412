package bridge

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/hubworks/sitepilot/internal/model"
)

// Client sends one envelope per connection to a bridge server.
type Client struct {
	socketPath string
	timeout    time.Duration
}

func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    30 * time.Second,
	}
}

func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// Send delivers the envelope and waits for its response frame.
func (c *Client) Send(env *model.Envelope) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to connect to bridge at %s: %w\n"+
				"Is the bridge running? Start it with: sitepilot serve",
			c.socketPath, err,
		)
	}
	defer func() { _ = conn.Close() }()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if err := WriteFrame(conn, env); err != nil {
		return nil, fmt.Errorf("send envelope: %w", err)
	}

	var resp Response
	if err := ReadFrame(conn, &resp); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &resp, nil
}

// send builds an envelope for the background surface and delivers it,
// decoding the result into out when non-nil.
func (c *Client) send(commandType model.CommandType, payload, out any) error {
	env, err := model.NewEnvelope(model.TargetBackground, commandType, payload)
	if err != nil {
		return err
	}
	resp, err := c.Send(env)
	if err != nil {
		return err
	}
	if !resp.OK {
		if resp.Error != nil {
			return fmt.Errorf("%s: %s", resp.Error.Code, resp.Error.Message)
		}
		return fmt.Errorf("bridge request failed")
	}
	if out != nil && resp.Result != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

// DetectSite asks the server which site a URL belongs to.
func (c *Client) DetectSite(url string) (string, error) {
	var result DetectSiteResult
	if err := c.send(model.CommandDetectSite, DetectSitePayload{URL: url}, &result); err != nil {
		return "", err
	}
	return result.Site, nil
}

// ListWorkflows returns the workflow ids of a site.
func (c *Client) ListWorkflows(site model.Site) ([]string, error) {
	var result ListWorkflowsResult
	if err := c.send(model.CommandListWorkflows, ListWorkflowsPayload{Site: site}, &result); err != nil {
		return nil, err
	}
	return result.WorkflowIDs, nil
}

// RunWorkflow runs a workflow on the server and returns its report.
func (c *Client) RunWorkflow(site model.Site, workflowID string, runContext map[string]any) (*model.RunReport, error) {
	var report model.RunReport
	payload := RunWorkflowPayload{Site: site, WorkflowID: workflowID, Context: runContext}
	if err := c.send(model.CommandRunWorkflow, payload, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// CaptureTable extracts one table through the server's executor.
func (c *Client) CaptureTable(site model.Site, selector string) ([]model.TableRow, error) {
	var result CaptureTableResult
	if err := c.send(model.CommandCaptureTable, CaptureTablePayload{Site: site, Selector: selector}, &result); err != nil {
		return nil, err
	}
	return result.Rows, nil
}
