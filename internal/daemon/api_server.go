package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gisflow/internal/api"
	"gisflow/internal/logging"
	"gisflow/internal/metrics"
	"gisflow/internal/projection"
	"gisflow/internal/workflow"
)

// reportService renders the projection and supplementary reports.
type reportService interface {
	Workflow(ctx context.Context) (api.WorkflowResponse, error)
	QC(ctx context.Context, user string) (api.QCResponse, error)
	FollowUps(ctx context.Context) (api.FollowUpResponse, error)
	RetiredPINs(ctx context.Context) (api.RetiredPINResponse, error)
}

type statusProvider interface {
	Status(ctx context.Context) api.DaemonStatus
}

type apiServer struct {
	bind    string
	logger  *slog.Logger
	reports reportService
	status  statusProvider
	metrics *metrics.Metrics

	listener net.Listener
	server   *http.Server
}

func newAPIServer(bind string, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:    strings.TrimSpace(bind),
		logger:  logging.NewComponentLogger(logger, "api-server"),
		reports: d.service,
		status:  d,
		metrics: d.metrics,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/workflow", s.handleWorkflow)
	r.Get("/api/qc", s.handleQC)
	r.Get("/api/followups", s.handleFollowUps)
	r.Get("/api/pins/retired", s.handleRetiredPINs)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.status.Status(r.Context()))
}

func (s *apiServer) handleWorkflow(w http.ResponseWriter, r *http.Request) {
	var (
		stage    workflow.Stage
		filtered bool
	)
	if raw := strings.TrimSpace(r.URL.Query().Get("stage")); raw != "" {
		parsed, err := workflow.ParseStage(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		stage, filtered = parsed, true
	}

	resp, err := s.reports.Workflow(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if filtered {
		resp = api.FilterStage(resp, stage)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleQC(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reports.QC(r.Context(), r.URL.Query().Get("user"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleFollowUps(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reports.FollowUps(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleRetiredPINs(w http.ResponseWriter, r *http.Request) {
	resp, err := s.reports.RetiredPINs(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, projection.ErrSnapshotUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
	}
	logging.WithContext(r.Context(), s.logger).Error("request failed",
		logging.String("path", r.URL.Path),
		logging.Int("status", status),
		logging.Error(err),
	)
	s.writeError(w, status, err.Error())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
