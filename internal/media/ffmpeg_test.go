package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"phonalign/internal/logging"
	"phonalign/internal/services"
)

func TestConvertArgs(t *testing.T) {
	got := convertArgs("/in/audio.mp3", "/out/audio.wav")
	want := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", "/in/audio.mp3",
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		"/out/audio.wav",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("convertArgs() = %v, want %v", got, want)
	}
}

func TestCutArgs(t *testing.T) {
	got := cutArgs("/in/audio.wav", "/out/seg.wav", 0.1234, 0.4567)
	want := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", "0.1234",
		"-to", "0.4567",
		"-i", "/in/audio.wav",
		"-c:a", "pcm_s16le",
		"/out/seg.wav",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("cutArgs() = %v, want %v", got, want)
	}
}

func TestConvertInvokesRunner(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out", "entry.wav")

	var gotName string
	var gotArgs []string
	converter := NewConverter("ffmpeg", logging.NewNop())
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	if err := converter.Convert(context.Background(), filepath.Join(dir, "in.mp3"), dest); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("unexpected binary %q", gotName)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != dest {
		t.Fatalf("destination missing from args: %v", gotArgs)
	}
}

func TestConvertSkipsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "entry.wav")
	if err := os.WriteFile(dest, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	converter := NewConverter("ffmpeg", logging.NewNop())
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("runner should not be invoked for existing destination")
		return nil
	})

	if err := converter.Convert(context.Background(), "in.mp3", dest); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
}

func TestConvertOverwriteRegeneratesDestination(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "entry.wav")
	if err := os.WriteFile(dest, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	invoked := false
	converter := NewConverter("ffmpeg", logging.NewNop())
	converter.WithOverwrite(true)
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		invoked = true
		return nil
	})

	if err := converter.Convert(context.Background(), "in.mp3", dest); err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if !invoked {
		t.Fatal("overwrite mode should reconvert an existing destination")
	}
}

func TestCutSegmentSkipsExistingClipWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "000_HH.wav")
	if err := os.WriteFile(dest, []byte("wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	converter := NewConverter("ffmpeg", logging.NewNop())
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("runner should not be invoked for existing clip")
		return nil
	})

	if err := converter.CutSegment(context.Background(), "in.wav", dest, 0.1, 0.2); err != nil {
		t.Fatalf("CutSegment returned error: %v", err)
	}
}

func TestConvertWrapsRunnerFailure(t *testing.T) {
	converter := NewConverter("ffmpeg", logging.NewNop())
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("boom")
	})

	err := converter.Convert(context.Background(), "in.mp3", filepath.Join(t.TempDir(), "out.wav"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("a failed conversion should not abort the whole run")
	}
}

func TestConvertMissingBinaryIsConfiguration(t *testing.T) {
	converter := NewConverter("phonalign-no-such-ffmpeg", logging.NewNop())

	err := converter.Convert(context.Background(), "in.mp3", filepath.Join(t.TempDir(), "out.wav"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration for missing binary, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Fatal("a missing binary should abort the whole run")
	}
}

func TestCutSegmentRejectsEmptyWindow(t *testing.T) {
	converter := NewConverter("ffmpeg", logging.NewNop())
	converter.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		t.Fatal("runner should not be invoked")
		return nil
	})

	err := converter.CutSegment(context.Background(), "in.wav", filepath.Join(t.TempDir(), "seg.wav"), 0.5, 0.5)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
