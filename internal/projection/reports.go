package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"gisflow/internal/api"
	"gisflow/internal/logging"
	"gisflow/internal/reports"
)

const (
	ReportWorkflow    = "workflow"
	ReportQC          = "qc"
	ReportFollowUps   = "followups"
	ReportRetiredPINs = "retired_pins"
)

// Workflow returns the stage projection.
func (s *Service) Workflow(ctx context.Context) (api.WorkflowResponse, error) {
	return cached(ctx, s, ReportWorkflow, ReportWorkflow, func(p *Pass) api.WorkflowResponse {
		return api.NewWorkflowResponse(p.Now, p.Records)
	})
}

// QC returns the quality-check queue as seen by user.
func (s *Service) QC(ctx context.Context, user string) (api.QCResponse, error) {
	user = strings.TrimSpace(user)
	key := ReportQC + ":" + user
	return cached(ctx, s, ReportQC, key, func(p *Pass) api.QCResponse {
		return api.QCResponse{
			GeneratedAt: api.FormatTime(p.Now),
			User:        user,
			Items:       api.FromQCItems(reports.QCQueue(p.Snapshot, p.Index, user)),
		}
	})
}

// FollowUps returns the hold follow-up report.
func (s *Service) FollowUps(ctx context.Context) (api.FollowUpResponse, error) {
	return cached(ctx, s, ReportFollowUps, ReportFollowUps, func(p *Pass) api.FollowUpResponse {
		return api.FollowUpResponse{
			GeneratedAt: api.FormatTime(p.Now),
			Items:       api.FromFollowUps(reports.FollowUps(p.Snapshot, p.Index, s.rules.HoldStatus, p.Now)),
		}
	})
}

// RetiredPINs returns the retired-PIN register.
func (s *Service) RetiredPINs(ctx context.Context) (api.RetiredPINResponse, error) {
	return cached(ctx, s, ReportRetiredPINs, ReportRetiredPINs, func(p *Pass) api.RetiredPINResponse {
		return api.RetiredPINResponse{
			GeneratedAt: api.FormatTime(p.Now),
			Items:       api.FromRetiredPINs(reports.RetiredPINRegister(p.Snapshot, p.Index)),
		}
	})
}

// cached serves key from the report cache or renders it from a fresh pass.
// Cache failures are logged and treated as misses.
func cached[T any](ctx context.Context, s *Service, report, key string, build func(*Pass) T) (T, error) {
	var zero T
	logger := logging.WithContext(logging.WithReport(ctx, report), s.logger)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		s.metrics.IncrementCacheLookup(report, "error")
		logger.Warn("report cache read failed", logging.Error(err))
	} else if ok {
		var out T
		if err := json.Unmarshal(data, &out); err == nil {
			s.metrics.IncrementCacheLookup(report, "hit")
			return out, nil
		}
		logger.Warn("discarding undecodable cached report")
	}
	s.metrics.IncrementCacheLookup(report, "miss")

	// The shared load outlives any one caller; Evaluate bounds it with the
	// configured load timeout.
	shared := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		pass, err := s.Evaluate(shared)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(build(pass))
		if err != nil {
			return nil, fmt.Errorf("encode %s report: %w", report, err)
		}
		if err := s.cache.Set(shared, key, data); err != nil {
			logger.Warn("report cache write failed", logging.Error(err))
		}
		return data, nil
	})
	var res singleflight.Result
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return zero, res.Err
	}
	var out T
	if err := json.Unmarshal(res.Val.([]byte), &out); err != nil {
		return zero, fmt.Errorf("decode %s report: %w", report, err)
	}
	return out, nil
}
