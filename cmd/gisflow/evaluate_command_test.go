package main

import (
	"encoding/json"
	"testing"

	"gisflow/internal/api"
)

func TestEvaluateTable(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := runCLI(t, []string{"evaluate"}, env.configPath)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	requireContains(t, out, "Pending T/C")
	requireContains(t, out, "jsmith")
	requireContains(t, out, "Review: 1  Pending T/C: 1  Devnet: 1  Fabric: 1")
}

func TestEvaluateJSONWithStageFilter(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := runCLI(t, []string{"evaluate", "--stage", "fabric", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	var resp api.WorkflowResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(resp.Records) != 1 {
		t.Fatalf("expected one fabric record, got %+v", resp.Records)
	}
	rec := resp.Records[0]
	if rec.DocNum != "2025-000104" || rec.ProcessStep != 1 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Processor == nil || *rec.Processor != "jsmith" {
		t.Fatalf("expected processor jsmith, got %v", rec.Processor)
	}
	if resp.Counts["Review"] != 1 {
		t.Fatalf("expected unfiltered counts, got %v", resp.Counts)
	}
}

func TestEvaluateRejectsUnknownStage(t *testing.T) {
	env := setupCLITestEnv(t, true)

	if _, _, err := runCLI(t, []string{"evaluate", "--stage", "archive"}, env.configPath); err == nil {
		t.Fatal("expected unknown stage to fail")
	}
}

func TestEvaluateEmptyDatabase(t *testing.T) {
	env := setupCLITestEnv(t, false)

	out, _, err := runCLI(t, []string{"evaluate"}, env.configPath)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	requireContains(t, out, "No documents in the workflow")
	requireContains(t, out, "Review: 0")
}

func TestStageSummaryOrder(t *testing.T) {
	got := stageSummary(map[string]int{"Fabric": 2, "Review": 3})
	want := "Review: 3  Pending T/C: 0  Devnet: 0  Fabric: 2"
	if got != want {
		t.Fatalf("stageSummary = %q, want %q", got, want)
	}
}
