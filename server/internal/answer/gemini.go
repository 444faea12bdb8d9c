package answer

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/bfhl/bfhl/server/internal/config"
)

// Gemini answers questions through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini backend. cfg.Endpoint, when set, replaces the
// SDK base URL.
func NewGemini(ctx context.Context, cfg config.ProviderConfig) (*Gemini, error) {
	key := cfg.Key()
	if key == "" {
		return nil, fmt.Errorf("answer: gemini: %s is empty", cfg.KeyEnv)
	}
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("answer: gemini: create client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Name implements Named.
func (g *Gemini) Name() string { return config.ProviderGemini }

// Ask implements Asker.
func (g *Gemini) Ask(ctx context.Context, question string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(question), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
		// Thinking tokens count against the output budget.
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		return "", fmt.Errorf("answer: gemini: %w", err)
	}
	return FirstWord(resp.Text())
}
