package answer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/bfhl/bfhl/server/internal/config"
)

// Single-word instruction shared by every backend.
const systemPrompt = "Answer the user's question with ONLY a single word. " +
	"Do not provide any explanation, context, punctuation, or additional words."

// Generation settings shared by every backend.
const (
	temperature     = 0.1
	maxOutputTokens = 10
)

var (
	// ErrNoProvider means no provider was named and no API key is set.
	ErrNoProvider = errors.New("answer: no provider configured: set GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY")

	// ErrEmptyAnswer means the provider replied without a usable word.
	ErrEmptyAnswer = errors.New("answer: empty response")
)

// Asker answers a natural-language question with a single word.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Named is implemented by backends that report which provider they call.
type Named interface {
	Name() string
}

// NameOf returns the provider name of a, or "unknown".
func NameOf(a Asker) string {
	if n, ok := a.(Named); ok {
		return n.Name()
	}
	return "unknown"
}

// Resolve returns the provider that New would build for cfg.
func Resolve(cfg config.AnswerConfig) (string, error) {
	if cfg.Provider != "" {
		return cfg.Provider, nil
	}
	switch {
	case cfg.Gemini.Key() != "":
		return config.ProviderGemini, nil
	case cfg.OpenAI.Key() != "":
		return config.ProviderOpenAI, nil
	case cfg.Anthropic.Key() != "":
		return config.ProviderAnthropic, nil
	}
	return "", ErrNoProvider
}

// New builds the Asker selected by cfg.
func New(ctx context.Context, cfg config.AnswerConfig) (Asker, error) {
	provider, err := Resolve(cfg)
	if err != nil {
		return nil, err
	}
	switch provider {
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.Gemini)
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI, cfg.Timeout)
	case config.ProviderAnthropic:
		return NewAnthropic(cfg.Anthropic, cfg.Timeout)
	default:
		return nil, fmt.Errorf("answer: unknown provider %q", provider)
	}
}

// newHTTPClient returns the client used by the net/http backends. Its timeout
// backs up the caller's context deadline.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = config.DefaultAnswerTimeout
	}
	return &http.Client{Timeout: timeout}
}

// FirstWord returns the first whitespace-separated token of text with every
// character that is not a letter or digit removed.
func FirstWord(text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", ErrEmptyAnswer
	}
	word := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, fields[0])
	if word == "" {
		return "", ErrEmptyAnswer
	}
	return word, nil
}

// Unavailable is an Asker that always fails with Err. The server uses it
// when no provider is configured so the other operations keep working.
type Unavailable struct {
	Err error
}

// Ask implements Asker.
func (u Unavailable) Ask(context.Context, string) (string, error) {
	return "", u.Err
}

// Name implements Named.
func (Unavailable) Name() string { return "none" }
