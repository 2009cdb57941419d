package main

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gisflow/internal/api"
	"gisflow/internal/daemon"
	"gisflow/internal/logging"
	"gisflow/internal/projection"
	"gisflow/internal/reportcache"
	"gisflow/internal/testsupport"
)

func TestStatusAgainstRunningDaemon(t *testing.T) {
	env := setupCLITestEnv(t, true)

	store := testsupport.MustOpenStore(t, env.cfg)
	d, err := daemon.New(env.cfg, store, reportcache.None{}, logging.NewNop(),
		projection.WithClock(func() time.Time { return testsupport.SampleNow }))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Stop() })
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("daemon start: %v", err)
	}
	if _, err := d.Service().Workflow(context.Background()); err != nil {
		t.Fatalf("workflow: %v", err)
	}

	env.cfg.API.Bind = d.Addr()
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"status", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	var status api.DaemonStatus
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !status.Running || status.LastEvaluation == nil || status.LastEvaluation.Records != 4 {
		t.Fatalf("unexpected status %+v", status)
	}

	out, _, err = runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "[OK] Running")
	requireContains(t, out, "Review: 1  Pending T/C: 1  Devnet: 1  Fabric: 1")
}

func TestStatusAndStopWithoutDaemon(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Not running")

	out, _, err = runCLI(t, []string{"stop"}, env.configPath)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !strings.Contains(out, "not running") {
		t.Fatalf("expected not running message, got %q", out)
	}
}

func TestDaemonStatusLinesLastEvaluationError(t *testing.T) {
	lines := daemonStatusLines(&api.DaemonStatus{
		Running:        true,
		PID:            7,
		LastEvaluation: &api.EvaluationStatus{EvaluatedAt: "2025-06-15T10:00:00.000-05:00", Error: "snapshot unavailable"},
	}, false)
	last := lines[len(lines)-1]
	if !strings.Contains(last, "[ERROR]") || !strings.Contains(last, "snapshot unavailable") {
		t.Fatalf("expected error line, got %q", last)
	}
}
