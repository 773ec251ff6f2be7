// Package llm abstracts the external completion service. The orchestrator
// only sees the Client interface; the Gemini implementation lives here.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request is one completion call: fixed system instructions plus the
// assembled user content.
type Request struct {
	SystemInstructions string
	UserContent        string
}

// Client is an abstraction over completion providers.
type Client interface {
	// Complete sends the request and returns the generated text.
	Complete(ctx context.Context, req Request) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Config holds provider tuning knobs.
type Config struct {
	Model           string
	Temperature     float32
	MaxOutputTokens int32
}

// DefaultConfig returns the settings used when the caller supplies none.
// Low temperature keeps generation consistent across reruns.
func DefaultConfig() *Config {
	return &Config{
		Model:           "gemini-2.0-flash",
		Temperature:     0.1,
		MaxOutputTokens: 4096,
	}
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a Gemini-backed completion client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, config: config}, nil
}

// Complete sends the assembled prompt and returns the response text.
func (c *GeminiClient) Complete(ctx context.Context, req Request) (string, error) {
	model := c.client.GenerativeModel(c.config.Model)
	model.SetTemperature(c.config.Temperature)
	if c.config.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(c.config.MaxOutputTokens)
	}
	if req.SystemInstructions != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstructions)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserContent))
	if err != nil {
		return "", wrapAPIError(err)
	}
	return extractTextFromResponse(resp)
}

// Close releases resources held by the client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &CompletionError{Message: "no candidates in response"}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &CompletionError{Message: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &CompletionError{Message: "no text parts in response"}
	}
	return strings.Join(parts, ""), nil
}
