package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hubworks/sitepilot/internal/engine"
	"github.com/hubworks/sitepilot/internal/events"
	"github.com/hubworks/sitepilot/internal/model"
)

// ExecutorFactory builds the executor a run_workflow or capture_table
// request uses. The default factory returns the no-op executor, which
// makes socket-initiated runs dry runs unless a real driver is wired.
type ExecutorFactory func(site model.Site, workflowID string) engine.Executor

// Server accepts command envelopes on a Unix socket and dispatches
// them to the engine.
type Server struct {
	socketPath string
	eng        *engine.Engine
	history    *events.HistoryLog
	logger     *log.Logger

	mu        sync.RWMutex
	executors ExecutorFactory

	listener    net.Listener
	connTimeout time.Duration
	wg          sync.WaitGroup
}

// NewServer builds a bridge server. history may be nil to skip run
// recording.
func NewServer(socketPath string, eng *engine.Engine, history *events.HistoryLog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		socketPath:  socketPath,
		eng:         eng,
		history:     history,
		logger:      logger,
		connTimeout: 30 * time.Second,
		executors: func(model.Site, string) engine.Executor {
			return engine.NewNoop()
		},
	}
}

// SetExecutorFactory replaces the executor source for incoming runs.
func (s *Server) SetExecutorFactory(factory ExecutorFactory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors = factory
}

func (s *Server) executor(site model.Site, workflowID string) engine.Executor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.executors(site, workflowID)
}

// Serve listens until ctx is cancelled. The stale socket file is
// replaced and the live one is chmodded to 0600.
func (s *Server) Serve(ctx context.Context) error {
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.socketPath, err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		_ = listener.Close()
		return fmt.Errorf("chmod socket: %w", err)
	}
	s.listener = listener
	s.logger.Printf("bridge listening on %s", s.socketPath)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		_ = listener.Close()
		return nil
	})
	g.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
					s.logger.Printf("accept error: %v", err)
					continue
				}
			}
			s.wg.Add(1)
			go s.handleConn(ctx, conn)
		}
	})

	err = g.Wait()
	s.wg.Wait()
	_ = os.Remove(s.socketPath)
	return err
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer func() { _ = conn.Close() }()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("panic in handleConn: %v\n%s", r, debug.Stack())
		}
	}()

	_ = conn.SetDeadline(time.Now().Add(s.connTimeout))

	var env model.Envelope
	if err := ReadFrame(conn, &env); err != nil {
		s.logger.Printf("read envelope error: %v", err)
		return
	}

	resp := s.processEnvelope(ctx, &env)

	if err := WriteFrame(conn, resp); err != nil {
		s.logger.Printf("write response error: %v", err)
	}
}

func (s *Server) processEnvelope(ctx context.Context, env *model.Envelope) *Response {
	if err := env.Validate(); err != nil {
		return errorResponse(env.ID, model.ErrCodeInputInvalid, err.Error())
	}

	switch env.CommandType {
	case model.CommandDetectSite:
		var payload DetectSitePayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return errorResponse(env.ID, model.ErrCodeInputInvalid, err.Error())
		}
		return successResponse(env.ID, DetectSiteResult{Site: string(model.DetectSite(payload.URL))})

	case model.CommandListWorkflows:
		var payload ListWorkflowsPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return errorResponse(env.ID, model.ErrCodeInputInvalid, err.Error())
		}
		return successResponse(env.ID, ListWorkflowsResult{WorkflowIDs: s.eng.ListWorkflows(payload.Site)})

	case model.CommandRunWorkflow:
		var payload RunWorkflowPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return errorResponse(env.ID, model.ErrCodeInputInvalid, err.Error())
		}
		exec := s.executor(payload.Site, payload.WorkflowID)
		report := s.eng.Run(ctx, payload.Site, payload.WorkflowID, exec, payload.Context)
		if s.history != nil {
			if err := s.history.Record(model.GenerateID(model.IDKindRun), report); err != nil {
				s.logger.Printf("history record failed: %v", err)
			}
		}
		return successResponse(env.ID, report)

	case model.CommandCaptureTable:
		var payload CaptureTablePayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return errorResponse(env.ID, model.ErrCodeInputInvalid, err.Error())
		}
		exec := s.executor(payload.Site, "")
		rows, err := exec.ExtractTable(ctx, payload.Selector)
		if err != nil {
			return errorResponse(env.ID, engine.ErrorCode(err), err.Error())
		}
		return successResponse(env.ID, CaptureTableResult{Rows: rows})

	default:
		return errorResponse(env.ID, model.ErrCodeCommandUnsupported,
			fmt.Sprintf("unknown command type: %q", env.CommandType))
	}
}
