package main

import (
	"strings"
	"testing"

	"phonalign/internal/testsupport"
)

func TestStatusRendersSections(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	testsupport.NewEntry(t, env.store, "narrator", "hello")

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Paths\n-----")
	requireContains(t, out, "External tools\n--------------")
	requireContains(t, out, "Services\n--------")
	requireContains(t, out, "Catalog\n-------")
	requireContains(t, out, "ElevenLabs")
	requireContains(t, out, "Not configured")
	requireContains(t, out, "1 total (1 pending")
}

func TestStatusRenderLine(t *testing.T) {
	line := renderStatusLine("Database", statusOK, "ready", false)
	if !strings.HasPrefix(line, "  [OK]") || !strings.HasSuffix(line, "Database: ready") {
		t.Fatalf("unexpected status line: %q", line)
	}

	colored := renderStatusLine("Database", statusError, "", true)
	if colored == line || !strings.Contains(colored, ansiRed) {
		t.Fatalf("expected ANSI colored line, got %q", colored)
	}
}
