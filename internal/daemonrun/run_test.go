package daemonrun

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gisflow/internal/api"
	"gisflow/internal/testsupport"
)

func TestRunServesUntilCancelled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustSeedStore(t, cfg, testsupport.SampleSnapshot())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, Options{
			LogLevel: "error",
			Clock:    func() time.Time { return testsupport.SampleNow },
			Ready:    func(addr string) { ready <- addr },
		})
	}()

	var addr string
	select {
	case addr = <-ready:
	case err := <-done:
		t.Fatalf("Run returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not become ready")
	}

	pid, err := os.ReadFile(filepath.Join(cfg.Paths.DataDir, "gisflowd.pid"))
	if err != nil || len(pid) == 0 {
		t.Fatalf("expected pid file, err=%v", err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + addr + "/api/workflow")
	if err != nil {
		t.Fatalf("GET /api/workflow: %v", err)
	}
	defer resp.Body.Close()
	var body api.WorkflowResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode workflow: %v", err)
	}
	if len(body.Records) != 4 {
		t.Fatalf("expected 4 workflow records, got %d", len(body.Records))
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.DataDir, "gisflowd.pid")); !os.IsNotExist(err) {
		t.Fatalf("expected pid file removed, err=%v", err)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background(), nil, Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
