package daemon_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"gisflow/internal/api"
	"gisflow/internal/daemon"
	"gisflow/internal/logging"
	"gisflow/internal/projection"
	"gisflow/internal/reportcache"
	"gisflow/internal/testsupport"
)

func TestDaemonStartStop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustSeedStore(t, cfg, testsupport.SampleSnapshot())

	d, err := daemon.New(cfg, store, reportcache.None{}, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + d.Addr() + "/api/status")
	if err != nil {
		t.Fatalf("GET /api/status: %v", err)
	}
	defer resp.Body.Close()
	var status api.DaemonStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Running || status.LockFilePath != cfg.LockPath() {
		t.Fatalf("unexpected status %+v", status)
	}

	d.Stop()
	if d.Status(ctx).Running {
		t.Fatal("expected daemon to report stopped")
	}
}

func TestDaemonLockPreventsSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := daemon.New(cfg, testsupport.MustOpenStore(t, cfg), nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { first.Stop() })

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}

	second, err := daemon.New(cfg, testsupport.MustOpenStore(t, cfg), nil, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("expected lock contention error")
	}
}

func TestDaemonEvaluatesWithSuppliedClock(t *testing.T) {
	cases := []struct {
		name  string
		now   time.Time
		stage string
	}{
		{name: "sample year", now: testsupport.SampleNow, stage: "Devnet"},
		{name: "following year", now: testsupport.SampleNow.AddDate(1, 4, 0), stage: "Pending T/C"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			store := testsupport.MustSeedStore(t, cfg, testsupport.SampleSnapshot())
			now := tc.now
			d, err := daemon.New(cfg, store, reportcache.None{}, logging.NewNop(),
				projection.WithClock(func() time.Time { return now }))
			if err != nil {
				t.Fatalf("daemon.New: %v", err)
			}
			t.Cleanup(func() { d.Close() })

			resp, err := d.Service().Workflow(context.Background())
			if err != nil {
				t.Fatalf("workflow: %v", err)
			}
			var stage string
			for _, rec := range resp.Records {
				if rec.DocNum == "2025-000103" {
					stage = rec.ProcessingStatus
				}
			}
			if stage != tc.stage {
				t.Fatalf("2025-000103 stage = %q, want %q", stage, tc.stage)
			}
		})
	}
}
