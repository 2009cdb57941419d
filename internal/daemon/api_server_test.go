package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gisflow/internal/api"
	"gisflow/internal/logging"
	"gisflow/internal/metrics"
	"gisflow/internal/projection"
)

type reportStub struct {
	workflow api.WorkflowResponse
	err      error
	qcUser   string
}

func (s *reportStub) Workflow(context.Context) (api.WorkflowResponse, error) {
	return s.workflow, s.err
}

func (s *reportStub) QC(_ context.Context, user string) (api.QCResponse, error) {
	s.qcUser = user
	return api.QCResponse{User: user, Items: []api.QCItem{{DocNum: "2025-000108", CreatedUser: "akim"}}}, s.err
}

func (s *reportStub) FollowUps(context.Context) (api.FollowUpResponse, error) {
	return api.FollowUpResponse{Items: []api.FollowUpItem{}}, s.err
}

func (s *reportStub) RetiredPINs(context.Context) (api.RetiredPINResponse, error) {
	return api.RetiredPINResponse{Items: []api.RetiredPIN{}}, s.err
}

type statusStub struct{}

func (statusStub) Status(context.Context) api.DaemonStatus {
	return api.DaemonStatus{Running: true, Source: "sqlite:/tmp/x.db", Cache: "memory"}
}

func newTestServer(stub *reportStub) (*apiServer, http.Handler) {
	srv := &apiServer{
		logger:  logging.NewNop(),
		reports: stub,
		status:  statusStub{},
		metrics: metrics.New(),
	}
	return srv, srv.routes()
}

func sampleWorkflow() api.WorkflowResponse {
	return api.WorkflowResponse{
		Counts: map[string]int{"Review": 1, "Fabric": 1},
		Records: []api.WorkflowRecord{
			{DocNum: "2025-000101", ProcessingStatus: "Review", ProcessStep: -1},
			{DocNum: "2025-000104", ProcessingStatus: "Fabric", ProcessStep: 1},
		},
	}
}

func serve(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAPIServerHandleWorkflow(t *testing.T) {
	_, h := newTestServer(&reportStub{workflow: sampleWorkflow()})

	w := serve(t, h, http.MethodGet, "/api/workflow")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var resp api.WorkflowResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Records))
	}
}

func TestAPIServerFiltersWorkflowByStage(t *testing.T) {
	_, h := newTestServer(&reportStub{workflow: sampleWorkflow()})

	w := serve(t, h, http.MethodGet, "/api/workflow?stage=fabric")
	var resp api.WorkflowResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Records) != 1 || resp.Records[0].DocNum != "2025-000104" {
		t.Fatalf("unexpected filtered records %+v", resp.Records)
	}

	w = serve(t, h, http.MethodGet, "/api/workflow?stage=bogus")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown stage, got %d", w.Code)
	}
}

func TestAPIServerPassesQCUser(t *testing.T) {
	stub := &reportStub{}
	_, h := newTestServer(stub)

	w := serve(t, h, http.MethodGet, "/api/qc?user=jsmith")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if stub.qcUser != "jsmith" {
		t.Fatalf("expected user to reach service, got %q", stub.qcUser)
	}
}

func TestAPIServerMapsSnapshotFailuresTo503(t *testing.T) {
	err := fmt.Errorf("load snapshot: %w: %w", projection.ErrSnapshotUnavailable, errors.New("dial tcp: refused"))
	_, h := newTestServer(&reportStub{err: err})

	for _, path := range []string{"/api/workflow", "/api/qc", "/api/followups", "/api/pins/retired"} {
		w := serve(t, h, http.MethodGet, path)
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", path, w.Code)
		}
		var body api.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode error body: %v", path, err)
		}
		if !strings.Contains(body.Error, "refused") {
			t.Fatalf("%s: unexpected error body %q", path, body.Error)
		}
	}
}

func TestAPIServerOtherFailuresAre500(t *testing.T) {
	_, h := newTestServer(&reportStub{err: errors.New("encode workflow report: boom")})
	if w := serve(t, h, http.MethodGet, "/api/workflow"); w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestAPIServerRejectsWrongMethodAndPath(t *testing.T) {
	_, h := newTestServer(&reportStub{})

	if w := serve(t, h, http.MethodPost, "/api/workflow"); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	if w := serve(t, h, http.MethodGet, "/api/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAPIServerRequestID(t *testing.T) {
	_, h := newTestServer(&reportStub{})

	w := serve(t, h, http.MethodGet, "/api/status")
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller request id echoed, got %q", got)
	}
}

func TestAPIServerServesMetrics(t *testing.T) {
	_, h := newTestServer(&reportStub{workflow: sampleWorkflow()})
	serve(t, h, http.MethodGet, "/api/workflow")

	w := serve(t, h, http.MethodGet, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `gisflow_http_requests_total{code="2xx",route="/api/workflow"} 1`) {
		t.Fatalf("expected request counter in exposition:\n%s", w.Body.String())
	}
}
