package main

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"phonalign/internal/testsupport"
)

func TestAlignEmptyCatalog(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	out, _, err := runCLI(t, []string{"align"}, env.configPath)
	if err != nil {
		t.Fatalf("align: %v", err)
	}
	requireContains(t, out, "Prepared: 0")
	requireContains(t, out, "Aligned: 0")
	requireContains(t, out, "Failed: 0")
}

func TestRunPreflightReportsMissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.MFA.Binary = "definitely-not-installed-aligner"

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := runPreflight(cmd, cfg)
	if err == nil {
		t.Fatal("expected preflight failure for missing aligner binary")
	}
	if !strings.Contains(err.Error(), "MFA") {
		t.Fatalf("expected MFA in preflight error, got %v", err)
	}
}

func TestAlignSkipChecks(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"align", "--skip-checks"}, env.configPath)
	if err != nil {
		t.Fatalf("align --skip-checks: %v", err)
	}
	requireContains(t, out, "finished in")
}
