package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/logimesh/config"
	"github.com/hupe1980/logimesh/core"
	"github.com/hupe1980/logimesh/orchestrator"
	"github.com/hupe1980/logimesh/runner"
	"github.com/hupe1980/logimesh/scenario"
	"github.com/hupe1980/logimesh/session"
)

const summary = "Inventory for P1 will run out in two days; a purchase order for 500 units was placed."

type fakeMesh struct {
	fail  error
	block bool
}

func (f *fakeMesh) Config() *config.Config {
	cfg := config.Default()
	cfg.Provider = config.ProviderMock
	cfg.MockScript = "script.yaml"

	return cfg
}

func (f *fakeMesh) Scenarios() ([]scenario.Info, error) {
	return []scenario.Info{{ID: 1, Dir: "scenario_1_low_inventory", Name: "Low Inventory"}}, nil
}

func (f *fakeMesh) Scenario(id int) (*scenario.Scenario, error) {
	if id != 1 {
		return nil, fmt.Errorf("%w: scenario %d", scenario.ErrNotFound, id)
	}

	return &scenario.Scenario{ID: 1, Dir: "scenario_1_low_inventory", Message: "LOGISTICS SCENARIO ALERT"}, nil
}

func (f *fakeMesh) Graph() (string, error) { return "flowchart TD\n", nil }

func (f *fakeMesh) RunScenario(ctx context.Context, _ int, observe func(orchestrator.Step)) (*orchestrator.Result, error) {
	observe(orchestrator.Step{Index: 1, Node: "Main Orchestrator", Kind: orchestrator.StepCoordinator,
		Messages: []core.Message{core.NewAgentMessage("Main Orchestrator", "")}})
	observe(orchestrator.Step{Index: 2, Node: "inventory_manager", Kind: orchestrator.StepWorker,
		Messages: []core.Message{core.NewAgentMessage("inventory_manager", "P1 runs out in two days.")}})

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	if f.fail != nil {
		return nil, f.fail
	}

	observe(orchestrator.Step{Index: 3, Node: "Main Orchestrator", Kind: orchestrator.StepCoordinator, Final: true,
		Messages: []core.Message{core.NewAgentMessage("Main Orchestrator", summary)}})

	return &orchestrator.Result{Summary: summary}, nil
}

func newTestServer(t *testing.T, mesh *fakeMesh, optFns ...func(o *Options)) (*httptest.Server, *runner.Runner) {
	t.Helper()

	r := runner.New(mesh)
	srv := httptest.NewServer(New(mesh, r, optFns...).Handler())
	t.Cleanup(srv.Close)

	return srv, r
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)

	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}

	return resp.StatusCode
}

func TestServer_ScenarioEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMesh{})

	var health map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", &health))
	assert.Equal(t, "ok", health["status"])

	var infos []scenario.Info
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/scenarios", &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "Low Inventory", infos[0].Name)

	var sc scenario.Scenario
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/scenarios/1", &sc))
	assert.Equal(t, "scenario_1_low_inventory", sc.Dir)

	var errResp errorResponse
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/api/scenarios/abc", &errResp))
	assert.Contains(t, errResp.Error, "invalid scenario id")
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/scenarios/2", nil))

	var info config.Info
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/info", &info))
	assert.Equal(t, "mock", info.Provider)

	var graph graphResponse
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/graph", &graph))
	assert.Equal(t, "flowchart TD\n", graph.Mermaid)
}

func TestServer_StartRunAndHistory(t *testing.T) {
	srv, r := newTestServer(t, &fakeMesh{})

	resp, err := http.Post(srv.URL+"/api/scenarios/1/runs", "application/json", nil)
	require.NoError(t, err)

	var accepted runAccepted
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&accepted))
	resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "/api/runs/"+accepted.RunID, accepted.StatusURL)

	require.Eventually(t, func() bool {
		rec, err := r.Store().Get(context.Background(), accepted.RunID)
		return err == nil && rec.Status.Done()
	}, time.Second, 5*time.Millisecond)

	var rec session.Record
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+accepted.StatusURL, &rec))
	assert.Equal(t, session.StatusCompleted, rec.Status)
	assert.Equal(t, summary, rec.Summary)
	assert.Len(t, rec.Steps, 3)

	var recs []session.Record
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/api/runs", &recs))
	assert.Len(t, recs, 1)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/api/runs/nope", nil))
}

func TestServer_CancelRun(t *testing.T) {
	srv, r := newTestServer(t, &fakeMesh{block: true})

	runID, err := r.Submit(context.Background(), 1)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/runs/"+runID, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Eventually(t, func() bool {
		rec, err := r.Store().Get(context.Background(), runID)
		return err == nil && rec.Status == session.StatusCancelled
	}, time.Second, 5*time.Millisecond)
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func readAll(t *testing.T, conn *websocket.Conn) []StreamMessage {
	t.Helper()

	var msgs []StreamMessage

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return msgs
		}

		msgs = append(msgs, msg)
	}
}

func TestServer_Stream(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMesh{})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/api/scenarios/1/stream"), nil)
	require.NoError(t, err)

	defer conn.Close()

	msgs := readAll(t, conn)
	require.Len(t, msgs, 4)

	for _, m := range msgs[:3] {
		assert.Equal(t, PayloadStep, m.Type)
		require.NotNil(t, m.Step)
	}

	assert.Equal(t, "inventory_manager", msgs[1].Step.Node)
	assert.Equal(t, "P1 runs out in two days.", msgs[1].Step.Preview)
	assert.True(t, msgs[2].Step.Final)

	assert.Equal(t, PayloadResult, msgs[3].Type)
	require.NotNil(t, msgs[3].Record)
	assert.Equal(t, summary, msgs[3].Record.Summary)
	assert.Equal(t, msgs[0].RunID, msgs[3].RunID)
}

func TestServer_StreamError(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMesh{fail: &orchestrator.WorkerFailure{Agent: "inventory_manager", Err: io.ErrUnexpectedEOF}})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/api/scenarios/1/stream"), nil)
	require.NoError(t, err)

	defer conn.Close()

	msgs := readAll(t, conn)
	require.Len(t, msgs, 3)
	assert.Equal(t, PayloadError, msgs[2].Type)
	assert.Equal(t, "worker inventory_manager failed: unexpected EOF", msgs[2].Error)
}

func TestServer_StreamUnknownScenario(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMesh{})

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/api/scenarios/5/stream"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CORS(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMesh{}, func(o *Options) { o.AllowedOrigins = []string{"dashboard.example.com"} })

	do := func(origin string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set("Origin", origin)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		return resp
	}

	allowed := do("https://dashboard.example.com")
	assert.Equal(t, "https://dashboard.example.com", allowed.Header.Get("Access-Control-Allow-Origin"))

	denied := do("https://evil.example.com")
	assert.Empty(t, denied.Header.Get("Access-Control-Allow-Origin"))
}

func TestIsOriginAllowed_SameHost(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://localhost:8080/api/scenarios", nil)

	r.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, isOriginAllowed(r, nil))

	r.Header.Set("Origin", "http://other:3000")
	assert.False(t, isOriginAllowed(r, nil))

	r.Header.Del("Origin")
	assert.True(t, isOriginAllowed(r, nil))
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, &fakeMesh{})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestCloseReason(t *testing.T) {
	assert.Equal(t, "run completed", closeReason("run completed"))

	ascii := strings.Repeat("a", 200)
	assert.Equal(t, ascii[:123], closeReason(ascii))

	split := strings.Repeat("a", 122) + "é" + "tail"
	got := closeReason(split)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 122), got)

	wide := strings.Repeat("€", 50)
	got = closeReason(wide)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("€", 41), got)
}
