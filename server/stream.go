package server

import (
	"context"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"

	"github.com/hupe1980/logimesh/orchestrator"
	"github.com/hupe1980/logimesh/session"
)

const (
	wsReadBufferSize  = 1024
	wsWriteBufferSize = 1024
	previewRunes      = 200
)

// Stream payload types.
const (
	PayloadStep   = "step"
	PayloadResult = "result"
	PayloadError  = "error"
)

// StepPayload is the wire form of an orchestrator step.
type StepPayload struct {
	Index   int    `json:"index"`
	Node    string `json:"node"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Preview string `json:"preview"`
	Final   bool   `json:"final,omitempty"`
}

// StreamMessage is one websocket frame: a step, the final run record or an
// error.
type StreamMessage struct {
	Type   string          `json:"type"`
	RunID  string          `json:"run_id,omitempty"`
	Step   *StepPayload    `json:"step,omitempty"`
	Record *session.Record `json:"record,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func newStepPayload(s orchestrator.Step) *StepPayload {
	return &StepPayload{
		Index:   s.Index,
		Node:    s.Node,
		Kind:    string(s.Kind),
		Content: s.Content(),
		Preview: s.Preview(previewRunes),
		Final:   s.Final,
	}
}

func (s *Server) upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  wsReadBufferSize,
		WriteBufferSize: wsWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isOriginAllowed(r, s.allowedOrigins)
		},
	}

	return upgrader.Upgrade(w, r, nil)
}

// handleStream runs a scenario and streams its steps over a websocket. The
// run is cancelled when the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sc, err := s.loadScenario(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrade(w, r)
	if err != nil {
		s.logger.Warn("server.websocket.upgrade_failed", "path", r.URL.Path, "error", err.Error())
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reads only detect the client closing the socket.
	go func() {
		defer cancel()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	runID, stepsCh, errCh, err := s.runner.Run(ctx, sc.ID)
	if err != nil {
		_ = s.write(conn, StreamMessage{Type: PayloadError, Error: err.Error()})
		s.close(conn, websocket.CloseTryAgainLater, err.Error())

		return
	}

	for step := range stepsCh {
		if err := s.write(conn, StreamMessage{Type: PayloadStep, RunID: runID, Step: newStepPayload(step)}); err != nil {
			cancel()
		}
	}

	if err := <-errCh; err != nil {
		_ = s.write(conn, StreamMessage{Type: PayloadError, RunID: runID, Error: err.Error()})
		s.close(conn, websocket.CloseInternalServerErr, "run failed")

		return
	}

	rec, err := s.runner.Store().Get(context.WithoutCancel(ctx), runID)
	if err != nil {
		_ = s.write(conn, StreamMessage{Type: PayloadError, RunID: runID, Error: err.Error()})
		s.close(conn, websocket.CloseInternalServerErr, "run record unavailable")

		return
	}

	_ = s.write(conn, StreamMessage{Type: PayloadResult, RunID: runID, Record: rec})
	s.close(conn, websocket.CloseNormalClosure, "run completed")
}

func (s *Server) write(conn *websocket.Conn, msg StreamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}

	return conn.WriteJSON(msg)
}

func (s *Server) close(conn *websocket.Conn, code int, reason string) {
	deadline := time.Now().Add(s.writeTimeout)
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, closeReason(reason)), deadline)
}

// closeReason cuts reason to the control frame limit without splitting a rune.
func closeReason(reason string) string {
	const maxReasonBytes = 123
	if len(reason) <= maxReasonBytes {
		return reason
	}

	end := maxReasonBytes
	for end > 0 && !utf8.RuneStart(reason[end]) {
		end--
	}

	return reason[:end]
}
