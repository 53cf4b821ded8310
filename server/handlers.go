package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hupe1980/logimesh/runner"
	"github.com/hupe1980/logimesh/scenario"
	"github.com/hupe1980/logimesh/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

type runAccepted struct {
	RunID     string `json:"run_id"`
	StatusURL string `json:"status_url"`
}

type graphResponse struct {
	Mermaid string `json:"mermaid"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, scenario.ErrInvalidID), errors.Is(err, session.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, scenario.ErrNotFound), errors.Is(err, session.ErrNotFound), errors.Is(err, runner.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, runner.ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("server.request.failed", "path", r.URL.Path, "error", err.Error())
	}

	writeError(w, status, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.mesh.Config().Info())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := s.mesh.Graph()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, graphResponse{Mermaid: g})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	infos, err := s.mesh.Scenarios()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, infos)
}

// loadScenario parses the {id} path value and loads the scenario.
func (s *Server) loadScenario(r *http.Request) (*scenario.Scenario, error) {
	id, err := scenario.ParseID(r.PathValue("id"))
	if err != nil {
		return nil, err
	}

	return s.mesh.Scenario(id)
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	sc, err := s.loadScenario(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	sc, err := s.loadScenario(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	runID, err := s.runner.Submit(r.Context(), sc.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, runAccepted{RunID: runID, StatusURL: "/api/runs/" + runID})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	recs, err := s.runner.Store().List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	rec, err := s.runner.Store().Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCancelRun(w http.ResponseWriter, r *http.Request) {
	if err := s.runner.Cancel(r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
