package main

import "testing"

func TestDoctorPassesOnSeededStore(t *testing.T) {
	env := setupCLITestEnv(t, true)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== gisflow doctor ==")
	requireContains(t, out, "[OK]")
	requireContains(t, out, "checks passed")
}
