package answer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bfhl/bfhl/server/internal/config"
)

const anthropicVersion = "2023-06-01"

// Anthropic answers questions through the messages API.
type Anthropic struct {
	key      string
	model    string
	endpoint string
	httpc    *http.Client
}

// NewAnthropic creates an Anthropic backend whose HTTP client gives up after
// timeout.
func NewAnthropic(cfg config.ProviderConfig, timeout time.Duration) (*Anthropic, error) {
	key := cfg.Key()
	if key == "" {
		return nil, fmt.Errorf("answer: anthropic: %s is empty", cfg.KeyEnv)
	}
	a := &Anthropic{
		key:      key,
		model:    cfg.Model,
		endpoint: cfg.Endpoint,
		httpc:    newHTTPClient(timeout),
	}
	if a.model == "" {
		a.model = config.DefaultAnthropicModel
	}
	if a.endpoint == "" {
		a.endpoint = config.DefaultAnthropicURL
	}
	return a, nil
}

// Name implements Named.
func (a *Anthropic) Name() string { return config.ProviderAnthropic }

// Ask implements Asker.
func (a *Anthropic) Ask(ctx context.Context, question string) (string, error) {
	body := map[string]any{
		"model":       a.model,
		"max_tokens":  maxOutputTokens,
		"temperature": temperature,
		"system":      systemPrompt,
		"messages": []any{
			map[string]any{"role": "user", "content": question},
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("answer: anthropic: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("answer: anthropic: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.key)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("answer: anthropic: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("answer: anthropic %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("answer: anthropic: decode response: %w", err)
	}
	for _, c := range out.Content {
		if c.Type == "text" || c.Type == "" {
			return FirstWord(c.Text)
		}
	}
	return "", ErrEmptyAnswer
}
