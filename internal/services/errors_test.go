package services_test

import (
	"errors"
	"strings"
	"testing"

	"phonalign/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("exit status 1")
	err := services.Wrap(services.ErrExternalTool, "align", "mfa align", "aligner failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	for _, want := range []string{"align", "mfa align", "aligner failed"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing detail %q", err, want)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"configuration", services.Wrap(services.ErrConfiguration, "prepare", "", "missing work dir", nil), true},
		{"external tool ran and failed", services.Wrap(services.ErrExternalTool, "prepare", "", "ffmpeg rejected input", nil), false},
		{"validation", services.Wrap(services.ErrValidation, "export", "", "no phones tier", nil), false},
		{"transient", services.Wrap(services.ErrTransient, "prepare", "", "", nil), false},
	}
	for _, tc := range cases {
		if got := services.IsFatal(tc.err); got != tc.fatal {
			t.Errorf("%s: IsFatal = %v, want %v", tc.name, got, tc.fatal)
		}
	}
}
