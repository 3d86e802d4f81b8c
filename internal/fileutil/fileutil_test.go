package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBackupCopiesFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "alignment.json")
	if err := os.WriteFile(src, []byte(`[{"script":"hi"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	backup, err := Backup(src)
	if err != nil {
		t.Fatal(err)
	}
	if backup != src+".bak" {
		t.Fatalf("backup path = %q", backup)
	}
	got, err := os.ReadFile(backup)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `[{"script":"hi"}]` {
		t.Fatalf("content mismatch: %q", got)
	}
}

func TestBackupMissingSource(t *testing.T) {
	backup, err := Backup(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("expected nil error for missing source, got %v", err)
	}
	if backup != "" {
		t.Fatalf("expected empty backup path, got %q", backup)
	}
}

func TestBackupOverwritesStaleBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "alignment.json")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src+".bak", []byte("old backup content"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Backup(src); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(src + ".bak")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("stale backup not replaced: %q", got)
	}
}

func TestCopyVerified(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "dst.json")

	content := []byte("verified copy content")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyVerified(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyVerifiedMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyVerified(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "dst.json"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}
