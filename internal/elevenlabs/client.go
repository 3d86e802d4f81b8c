package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"phonalign/internal/config"
	"phonalign/internal/dataset"
)

const userAgent = "phonalign/0.1.0"

// SpeechRequest describes one synthesis call.
type SpeechRequest struct {
	VoiceID      string
	Text         string
	ModelID      string
	OutputFormat string
}

// SpeechResult is the with-timestamps response: base64 audio plus character
// timing for both the raw and normalised text.
type SpeechResult struct {
	AudioBase64         string                      `json:"audio_base64"`
	Alignment           *dataset.CharacterAlignment `json:"alignment"`
	NormalizedAlignment *dataset.CharacterAlignment `json:"normalized_alignment"`
}

// Synthesizer abstracts the speech API for workflow components and tests.
type Synthesizer interface {
	SynthesizeWithTimestamps(ctx context.Context, req SpeechRequest) (*SpeechResult, error)
}

// Client is the HTTP implementation of Synthesizer.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient builds a client from configuration. The API key must already be
// validated by config.RequireElevenLabs.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.ElevenLabs.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.ElevenLabs.BaseURL, "/"),
		apiKey:  cfg.ElevenLabs.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type speechPayload struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id,omitempty"`
}

// SynthesizeWithTimestamps renders the text with the given voice and returns
// audio plus character timing.
func (c *Client) SynthesizeWithTimestamps(ctx context.Context, req SpeechRequest) (*SpeechResult, error) {
	voiceID := strings.TrimSpace(req.VoiceID)
	if voiceID == "" {
		return nil, fmt.Errorf("voice id is required")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/with-timestamps", c.baseURL, url.PathEscape(voiceID))
	if format := strings.TrimSpace(req.OutputFormat); format != "" {
		endpoint += "?output_format=" + url.QueryEscape(format)
	}

	body, err := json.Marshal(speechPayload{Text: text, ModelID: strings.TrimSpace(req.ModelID)})
	if err != nil {
		return nil, fmt.Errorf("encode speech request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build speech request: %w", err)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call speech API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("speech API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result SpeechResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode speech response: %w", err)
	}
	if result.AudioBase64 == "" {
		return nil, fmt.Errorf("speech response has no audio payload")
	}
	return &result, nil
}
