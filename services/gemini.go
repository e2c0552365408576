package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.0-flash"

var ErrEmptyModelReply = errors.New("gemini returned no text")

// GeminiLabelModel implements LabelModel on top of the Gemini API. One client
// is created at startup and shared; the generative model is safe for
// concurrent GenerateContent calls.
type GeminiLabelModel struct {
	client      *genai.Client
	model       *genai.GenerativeModel
	maxAttempts int
	backoff     time.Duration
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxAttempts int
	Backoff     time.Duration
}

func NewGeminiLabelModel(ctx context.Context, cfg GeminiConfig) (*GeminiLabelModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 200 * time.Millisecond
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(16)
	model.SetCandidateCount(1)

	return &GeminiLabelModel{
		client:      client,
		model:       model,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.Backoff,
	}, nil
}

func (g *GeminiLabelModel) Close() error {
	return g.client.Close()
}

// Classify sends the prompt and returns the raw text reply. Transient failures
// are retried up to maxAttempts while ctx allows.
func (g *GeminiLabelModel) Classify(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
		if err == nil {
			text := strings.TrimSpace(extractText(resp))
			if text != "" {
				return text, nil
			}
			err = ErrEmptyModelReply
		}
		lastErr = err
		if attempt == g.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("gemini classify: %w (last error: %v)", ctx.Err(), lastErr)
		case <-time.After(g.backoff * time.Duration(attempt)):
		}
	}
	return "", fmt.Errorf("gemini classify after %d attempt(s): %w", g.maxAttempts, lastErr)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
		// only the first candidate with content counts
		if text.Len() > 0 {
			break
		}
	}
	return text.String()
}
