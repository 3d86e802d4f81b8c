package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"phonalign/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("XI_API_KEY", "")

	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.MFA.Binary != "mfa" {
		t.Fatalf("unexpected mfa binary: %q", cfg.MFA.Binary)
	}
	if cfg.MFA.AcousticModel != "english_mfa" || cfg.MFA.Dictionary != "english_mfa" {
		t.Fatalf("expected mfa profile defaults, got %q/%q", cfg.MFA.AcousticModel, cfg.MFA.Dictionary)
	}
	if cfg.Postprocess.MinPhoneMs != 35 || cfg.Postprocess.MergeThresholdMs != 25 || cfg.Postprocess.AnticipationMs != 15 {
		t.Fatalf("unexpected postprocess defaults: %+v", cfg.Postprocess)
	}
	if !filepath.IsAbs(cfg.Paths.DatasetDir) {
		t.Fatalf("dataset dir not absolute: %q", cfg.Paths.DatasetDir)
	}
}

func TestLoadArpaProfileResolvesModels(t *testing.T) {
	path := writeConfig(t, `
[mfa]
profile = "arpa"
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.MFA.AcousticModel != "english_us_arpa" || cfg.MFA.Dictionary != "english_us_arpa" {
		t.Fatalf("expected arpa models, got %q/%q", cfg.MFA.AcousticModel, cfg.MFA.Dictionary)
	}
}

func TestLoadExplicitModelOverridesProfile(t *testing.T) {
	path := writeConfig(t, `
[mfa]
profile = "arpa"
acoustic_model = "english_us_arpa_2.0"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MFA.AcousticModel != "english_us_arpa_2.0" {
		t.Fatalf("override lost: %q", cfg.MFA.AcousticModel)
	}
	if cfg.MFA.Dictionary != "english_us_arpa" {
		t.Fatalf("dictionary should still follow profile: %q", cfg.MFA.Dictionary)
	}
}

func TestLoadRejectsUnknownProfile(t *testing.T) {
	path := writeConfig(t, `
[mfa]
profile = "timit"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestLoadRejectsMergeThresholdAboveMinimum(t *testing.T) {
	path := writeConfig(t, `
[postprocess]
min_phone_ms = 20
merge_threshold_ms = 30
`)
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "merge_threshold_ms") {
		t.Fatalf("expected merge threshold error, got %v", err)
	}
}

func TestAPIKeyFallsBackToEnvironment(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "from-env")
	path := writeConfig(t, "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ElevenLabs.APIKey != "from-env" {
		t.Fatalf("expected env api key, got %q", cfg.ElevenLabs.APIKey)
	}
}

func TestConfigFileAPIKeyWinsOverEnvironment(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "from-env")
	path := writeConfig(t, `
[elevenlabs]
api_key = "from-file"
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ElevenLabs.APIKey != "from-file" {
		t.Fatalf("expected file api key, got %q", cfg.ElevenLabs.APIKey)
	}
}

func TestRequireElevenLabs(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")
	t.Setenv("XI_API_KEY", "")
	path := writeConfig(t, "")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.RequireElevenLabs(); err == nil {
		t.Fatal("expected error when api key missing")
	}
	cfg.ElevenLabs.APIKey = "key"
	if err := cfg.RequireElevenLabs(); err == nil {
		t.Fatal("expected error when voice id missing")
	}
	cfg.ElevenLabs.VoiceID = "voice"
	if err := cfg.RequireElevenLabs(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
dataset_dir = "`+filepath.Join(base, "dataset")+`"
work_dir = "`+filepath.Join(base, "work")+`"
log_dir = "`+filepath.Join(base, "logs")+`"

[export]
segments_enabled = true
`)
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.AudioDir(), cfg.PhonemesDir(), cfg.AlignedDir(), cfg.SegmentsDir(), cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	got, err := config.ExpandPath("~/phonalign-test")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "phonalign-test") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
