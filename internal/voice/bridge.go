// Package voice bridges to the ElevenLabs speech APIs: transcription of
// audio input and synthesis of spoken advice. The bridge is an opaque
// capability from the pipeline's point of view; every failure here degrades,
// it never aborts a cycle.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public ElevenLabs API root.
	DefaultBaseURL = "https://api.elevenlabs.io"
	// DefaultVoiceID is "Rachel".
	DefaultVoiceID = "JBFqnCBsd6RMkjVDRZzb"
	// AdviceFileName is where synthesized advice is written, inside the data
	// directory.
	AdviceFileName = "latest_advice.mp3"

	sttModel = "scribe_v1"
	ttsModel = "eleven_multilingual_v2"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("voice bridge not configured")

// Bridge talks to the ElevenLabs endpoints.
type Bridge struct {
	baseURL string
	apiKey  string
	voiceID string
	httpc   *http.Client
}

// NewBridge creates a Bridge. Empty baseURL and voiceID select the public
// endpoint and the default voice. An empty apiKey disables the bridge.
func NewBridge(baseURL, apiKey, voiceID string, timeout time.Duration) *Bridge {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if voiceID == "" {
		voiceID = DefaultVoiceID
	}
	return &Bridge{
		baseURL: baseURL,
		apiKey:  apiKey,
		voiceID: voiceID,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether an API key is configured.
func (b *Bridge) Enabled() bool { return b != nil && b.apiKey != "" }

// IsAudioPath reports whether input names an existing audio file, which is
// the REPL's cue to transcribe instead of passing the text through.
func IsAudioPath(input string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(input))) {
	case ".mp3", ".wav", ".m4a", ".ogg":
	default:
		return false
	}
	_, err := os.Stat(strings.TrimSpace(input))
	return err == nil
}

// Transcribe converts an audio file to text.
func (b *Bridge) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if !b.Enabled() {
		return "", ErrNotConfigured
	}

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model_id", sttModel); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", fmt.Errorf("reading audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("xi-api-key", b.apiKey)

	resp, err := b.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling speech-to-text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech-to-text returned %s", resp.Status)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding transcription: %w", err)
	}
	return out.Text, nil
}

// Synthesize converts text to audio bytes.
func (b *Bridge) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !b.Enabled() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": ttsModel,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s?output_format=mp3_44100_128", b.baseURL, b.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", b.apiKey)

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling text-to-speech: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("text-to-speech returned %s", resp.Status)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	return audio, nil
}

// Speak synthesizes text and writes it to <dataDir>/latest_advice.mp3,
// returning the written path.
func (b *Bridge) Speak(ctx context.Context, dataDir, text string) (string, error) {
	audio, err := b.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dataDir, AdviceFileName)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("writing advice audio: %w", err)
	}
	return path, nil
}
