// Package config loads the service configuration from config.yaml.
//
// Sections:
//   - server  — http_port (3000), official_email, environment
//     (production|development), log_level, max_body_bytes (1 MiB),
//     rate_limit {enabled, window, max_requests}, cors {allowed_origins}
//   - limits  — sequence_max (1000), array_max_len (1000),
//     array_max_magnitude (100000), question_max_len (500)
//   - answer  — provider (gemini|openai|anthropic, empty = auto-detect),
//     timeout (10s), and per-provider key_env/model/endpoint
//   - metrics — enabled, path (/metrics)
//
// Load(path) applies defaults before unmarshalling, then the PORT and
// OFFICIAL_EMAIL environment overrides, then validates. API keys are never
// stored in the file; ProviderConfig.Key resolves them from key_env.
//
// Watch(ctx, path, running, onChange) reports edits to the file together
// with the dotted keys (see Diff) that differ from the running Config.
// Configuration is fixed for the life of the process, so callers only log
// which keys need a restart.
package config
