package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phonalign/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.ElevenLabs.APIKey = "test-key"
	cfg.ElevenLabs.BaseURL = server.URL
	return NewClient(&cfg)
}

func TestSynthesizeWithTimestamps(t *testing.T) {
	var gotPath, gotKey, gotFormat string
	var gotBody map[string]any

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("xi-api-key")
		gotFormat = r.URL.Query().Get("output_format")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"audio_base64": "AAAA",
			"alignment": map[string]any{
				"characters":                    []string{"h", "i"},
				"character_start_times_seconds": []float64{0, 0.1},
				"character_end_times_seconds":   []float64{0.1, 0.2},
			},
			"normalized_alignment": map[string]any{
				"characters":                    []string{"h", "i"},
				"character_start_times_seconds": []float64{0, 0.1},
				"character_end_times_seconds":   []float64{0.1, 0.2},
			},
		})
	})

	result, err := client.SynthesizeWithTimestamps(context.Background(), SpeechRequest{
		VoiceID:      "voice-1",
		Text:         "hi",
		ModelID:      "eleven_multilingual_v2",
		OutputFormat: "mp3_44100_128",
	})
	if err != nil {
		t.Fatalf("SynthesizeWithTimestamps returned error: %v", err)
	}

	if gotPath != "/v1/text-to-speech/voice-1/with-timestamps" {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Fatalf("unexpected api key header %q", gotKey)
	}
	if gotFormat != "mp3_44100_128" {
		t.Fatalf("unexpected output format %q", gotFormat)
	}
	if gotBody["text"] != "hi" || gotBody["model_id"] != "eleven_multilingual_v2" {
		t.Fatalf("unexpected request body: %v", gotBody)
	}

	if result.AudioBase64 != "AAAA" {
		t.Fatalf("unexpected audio payload %q", result.AudioBase64)
	}
	if result.NormalizedAlignment == nil || len(result.NormalizedAlignment.Characters) != 2 {
		t.Fatalf("normalized alignment missing: %+v", result.NormalizedAlignment)
	}
}

func TestSynthesizeSurfacesAPIErrors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	})

	_, err := client.SynthesizeWithTimestamps(context.Background(), SpeechRequest{
		VoiceID: "voice-1",
		Text:    "hi",
	})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if got := err.Error(); !strings.Contains(got, "401") || !strings.Contains(got, "invalid api key") {
		t.Fatalf("error should carry status and detail, got %q", got)
	}
}

func TestSynthesizeRejectsEmptyInput(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	if _, err := client.SynthesizeWithTimestamps(context.Background(), SpeechRequest{Text: "hi"}); err == nil {
		t.Fatal("expected error for missing voice id")
	}
	if _, err := client.SynthesizeWithTimestamps(context.Background(), SpeechRequest{VoiceID: "v"}); err == nil {
		t.Fatal("expected error for missing text")
	}
}

func TestSynthesizeRejectsEmptyAudio(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"audio_base64":""}`))
	})

	if _, err := client.SynthesizeWithTimestamps(context.Background(), SpeechRequest{VoiceID: "v", Text: "hi"}); err == nil {
		t.Fatal("expected error for empty audio payload")
	}
}
