package testsupport

import (
	"context"
	"testing"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
	"phonalign/internal/store"
)

// MustOpenStore opens a catalog store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewEntry creates a catalog entry for tests using the provided store. The
// voice key hash is derived from the voice ID and script the same way the
// synth path derives it.
func NewEntry(t testing.TB, st *store.Store, voiceID, script string) *store.Entry {
	t.Helper()

	entry, err := st.NewEntry(context.Background(), &store.Entry{
		VoiceKeyHash: dataset.VoiceKeyHash(voiceID, script),
		Script:       script,
		VoiceID:      voiceID,
		Status:       store.StatusPending,
	})
	if err != nil {
		t.Fatalf("store.NewEntry: %v", err)
	}
	return entry
}
