// Package answer asks an external language model for a one-word answer.
//
// Asker is the only contract the rest of the server depends on. Three
// backends implement it:
//
//   - Gemini    — google.golang.org/genai SDK
//   - OpenAI    — chat completions over net/http
//   - Anthropic — messages API over net/http
//
// New(ctx, cfg) picks the provider named in cfg.Provider, or the first of
// gemini, openai, anthropic whose API key is set. Every backend asks for a
// single word and runs the reply through FirstWord, so callers always receive
// one token of letters and digits or an error.
//
// Callers bound each call with a context deadline. The net/http backends also
// carry a client timeout of the configured answer.timeout.
package answer
