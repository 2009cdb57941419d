package main

import (
	"encoding/json"
	"testing"

	"gisflow/internal/api"
)

func TestQCCommandExcludesRequester(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := runCLI(t, []string{"qc", "--user", "akim", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("qc: %v", err)
	}
	var resp api.QCResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User != "akim" || len(resp.Items) != 1 || resp.Items[0].DocNum != "2025-000104" {
		t.Fatalf("unexpected qc response %+v", resp)
	}
}

func TestFollowUpsCommand(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := runCLI(t, []string{"followups", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("followups: %v", err)
	}
	var resp api.FollowUpResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	byDoc := map[string]api.FollowUpItem{}
	for _, it := range resp.Items {
		byDoc[it.DocNum] = it
	}
	if it, ok := byDoc["2025-000106"]; !ok || it.DaysSince == nil || *it.DaysSince != 10 {
		t.Fatalf("expected 106 followed up 10 days ago, got %+v", byDoc)
	}
	if it, ok := byDoc["2025-000107"]; !ok || it.DaysSince != nil || it.DurString != "Not followed up yet." {
		t.Fatalf("expected 107 never followed up, got %+v", it)
	}

	table, _, err := runCLI(t, []string{"followups"}, env.configPath)
	if err != nil {
		t.Fatalf("followups table: %v", err)
	}
	requireContains(t, table, "Last followed up 10 days ago.")
}

func TestPinsCommand(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := runCLI(t, []string{"pins", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("pins: %v", err)
	}
	var resp api.RetiredPINResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 retired pins, got %+v", resp.Items)
	}
	if resp.Items[0].PIN != "02-102" || resp.Items[0].LatestReviewResult != nil {
		t.Fatalf("unexpected first row %+v", resp.Items[0])
	}
	if resp.Items[1].PIN != "03-103" || resp.Items[1].LatestReviewResult == nil {
		t.Fatalf("unexpected second row %+v", resp.Items[1])
	}

	table, _, err := runCLI(t, []string{"pins"}, env.configPath)
	if err != nil {
		t.Fatalf("pins table: %v", err)
	}
	requireContains(t, table, "02-102")
	requireContains(t, table, *resp.Items[1].LatestReviewResult)
}
