package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gisflow/internal/api"
	"gisflow/internal/fixture"
	"gisflow/internal/testsupport"
)

func writeSampleFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.yaml")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer file.Close()
	if err := fixture.Encode(file, testsupport.SampleSnapshot()); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return path
}

func TestDBInit(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := runCLI(t, []string{"db", "init"}, env.configPath)
	if err != nil {
		t.Fatalf("db init: %v", err)
	}
	requireContains(t, out, env.cfg.Source.SQLitePath)
	requireContains(t, out, "schema v1")
}

func TestDBImportThenEvaluate(t *testing.T) {
	env := setupCLITestEnv(t, false)
	fixturePath := writeSampleFixture(t)

	out, _, err := runCLI(t, []string{"db", "import", fixturePath}, env.configPath)
	if err != nil {
		t.Fatalf("db import: %v", err)
	}
	requireContains(t, out, "Imported "+fixturePath)
	requireContains(t, out, "documents")

	out, _, err = runCLI(t, []string{"evaluate", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	var resp api.WorkflowResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Records) != 4 {
		t.Fatalf("expected 4 records after import, got %d", len(resp.Records))
	}

	out, _, err = runCLI(t, []string{"db", "counts"}, env.configPath)
	if err != nil {
		t.Fatalf("db counts: %v", err)
	}
	requireContains(t, out, "docs")
}

func TestDBImportMissingFile(t *testing.T) {
	env := setupCLITestEnv(t, false)

	if _, _, err := runCLI(t, []string{"db", "import", filepath.Join(t.TempDir(), "missing.yaml")}, env.configPath); err == nil {
		t.Fatal("expected missing fixture to fail")
	}
}

func TestDBExportRoundTrip(t *testing.T) {
	env := setupCLITestEnv(t, true)
	target := filepath.Join(t.TempDir(), "export.yaml")

	_, stderr, err := runCLI(t, []string{"db", "export", "--output", target}, env.configPath)
	if err != nil {
		t.Fatalf("db export: %v", err)
	}
	requireContains(t, stderr, "Wrote 10 documents")

	snap, err := fixture.LoadFile(target)
	if err != nil {
		t.Fatalf("load exported fixture: %v", err)
	}
	want := testsupport.SampleSnapshot()
	if len(snap.Documents) != len(want.Documents) || len(snap.Processing) != len(want.Processing) {
		t.Fatalf("export lost rows: %d docs, %d processing", len(snap.Documents), len(snap.Processing))
	}
}
