package main

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"phonalign/internal/dataset"
	"phonalign/internal/store"
	"phonalign/internal/testsupport"
)

func storedAlignment(t *testing.T) string {
	t.Helper()
	alignment := dataset.PhonemeAlignment{
		Created: "2026-03-01T12:00:00Z",
		Alignment: []dataset.PhonemeSegment{
			{CMU: "HH", Start: 0, End: 0.2},
			{CMU: "AY", Start: 0.185, End: 0.5},
		},
	}
	encoded, err := json.Marshal(alignment)
	if err != nil {
		t.Fatalf("encode alignment: %v", err)
	}
	return string(encoded)
}

func TestExportRewritesFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	entry := testsupport.NewEntry(t, env.store, "narrator", "hi")
	entry.Status = store.StatusCompleted
	entry.PhonemesJSON = storedAlignment(t)
	if err := env.store.Update(ctx, entry); err != nil {
		t.Fatalf("store alignment: %v", err)
	}

	if err := dataset.WriteFile(env.cfg.AlignmentFile(), []dataset.Entry{
		{VoiceKeyHash: entry.VoiceKeyHash, Script: "hi", VoiceID: "narrator"},
	}); err != nil {
		t.Fatalf("seed dataset file: %v", err)
	}

	out, _, err := runCLI(t, []string{"export"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "Exported 1 alignments")

	segments, err := dataset.ReadSegmentsFile(env.cfg.PhonemesDir() + "/" + entry.VoiceKeyHash + ".json")
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(segments) != 2 || segments[0].CMU != "HH" {
		t.Fatalf("unexpected segments: %#v", segments)
	}

	entries, err := dataset.ReadFile(env.cfg.AlignmentFile())
	if err != nil {
		t.Fatalf("read dataset file: %v", err)
	}
	if entries[0].PhonemeAlignment == nil || len(entries[0].PhonemeAlignment.Alignment) != 2 {
		t.Fatalf("expected alignment mirrored into dataset file, got %#v", entries[0])
	}

	if _, err := os.Stat(env.cfg.AlignmentFile() + ".bak"); err != nil {
		t.Fatalf("expected dataset backup: %v", err)
	}
}

func TestExportSpecificHashWithoutAlignment(t *testing.T) {
	env := setupCLITestEnv(t)

	entry := testsupport.NewEntry(t, env.store, "narrator", "hi")

	out, _, err := runCLI(t, []string{"export", entry.VoiceKeyHash}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, out, "no stored alignment")
}

func TestExportUnknownHash(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"export", "missing-hash"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown hash")
	}
}
