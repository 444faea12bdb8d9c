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

// OpenAI answers questions through the chat completions API.
type OpenAI struct {
	key      string
	model    string
	endpoint string
	httpc    *http.Client
}

// NewOpenAI creates an OpenAI backend whose HTTP client gives up after
// timeout.
func NewOpenAI(cfg config.ProviderConfig, timeout time.Duration) (*OpenAI, error) {
	key := cfg.Key()
	if key == "" {
		return nil, fmt.Errorf("answer: openai: %s is empty", cfg.KeyEnv)
	}
	o := &OpenAI{
		key:      key,
		model:    cfg.Model,
		endpoint: cfg.Endpoint,
		httpc:    newHTTPClient(timeout),
	}
	if o.model == "" {
		o.model = config.DefaultOpenAIModel
	}
	if o.endpoint == "" {
		o.endpoint = config.DefaultOpenAIURL
	}
	return o, nil
}

// Name implements Named.
func (o *OpenAI) Name() string { return config.ProviderOpenAI }

// Ask implements Asker.
func (o *OpenAI) Ask(ctx context.Context, question string) (string, error) {
	body := map[string]any{
		"model": o.model,
		"messages": []any{
			map[string]any{"role": "system", "content": systemPrompt},
			map[string]any{"role": "user", "content": question},
		},
		"temperature": temperature,
		"max_tokens":  maxOutputTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("answer: openai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("answer: openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.key)

	resp, err := o.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("answer: openai: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		x, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("answer: openai %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("answer: openai: decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	return FirstWord(out.Choices[0].Message.Content)
}
