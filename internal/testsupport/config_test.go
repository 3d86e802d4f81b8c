package testsupport_test

import (
	"testing"

	"phonalign/internal/testsupport"
)

func TestNewConfigValidates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("generated config should validate: %v", err)
	}
	if cfg.MFA.AcousticModel == "" || cfg.MFA.Dictionary == "" {
		t.Fatalf("mfa models not derived from profile: %+v", cfg.MFA)
	}
}
