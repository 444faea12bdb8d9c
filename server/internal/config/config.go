package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort      = 3000
	DefaultMaxBodyBytes  = 1 << 20
	DefaultEnvironment   = EnvProduction
	DefaultLogLevel      = "info"
	DefaultOfficialEmail = "your_email@chitkara.edu.in"

	DefaultRateLimitWindow      = 15 * time.Minute
	DefaultRateLimitMaxRequests = 100

	DefaultSequenceMax       = 1000
	DefaultArrayMaxLen       = 1000
	DefaultArrayMaxMagnitude = 100000
	DefaultQuestionMaxLen    = 500

	DefaultAnswerTimeout  = 10 * time.Second
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultOpenAIURL      = "https://api.openai.com/v1/chat/completions"
	DefaultAnthropicModel = "claude-3-haiku-20240307"
	DefaultAnthropicURL   = "https://api.anthropic.com/v1/messages"
)

// Environments recognised by server.environment.
const (
	EnvProduction  = "production"
	EnvDevelopment = "development"
)

// Answer providers recognised by answer.provider. An empty provider selects
// the first one whose API key is present in the environment.
const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the full service configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Limits  LimitsConfig  `yaml:"limits"`
	Answer  AnswerConfig  `yaml:"answer"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig holds HTTP-facing settings.
type ServerConfig struct {
	// HTTPPort is the port the API listens on (default 3000). PORT overrides it.
	HTTPPort int `yaml:"http_port"`

	// OfficialEmail is echoed in every response envelope. OFFICIAL_EMAIL
	// overrides it.
	OfficialEmail string `yaml:"official_email"`

	// Environment is production | development. Outside production, internal
	// failures carry diagnostic detail in the response.
	Environment string `yaml:"environment"`

	// LogLevel is one of debug | info | warn | error.
	LogLevel string `yaml:"log_level"`

	// MaxBodyBytes caps the request body (default 1 MiB).
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors"`
}

// RateLimitConfig bounds requests per client IP over a window.
type RateLimitConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LimitsConfig holds the input bounds enforced before any computation.
type LimitsConfig struct {
	// SequenceMax is the largest accepted fibonacci length (default 1000).
	SequenceMax int `yaml:"sequence_max"`

	// ArrayMaxLen is the longest accepted array (default 1000).
	ArrayMaxLen int `yaml:"array_max_len"`

	// ArrayMaxMagnitude bounds |element| of every array (default 100000).
	ArrayMaxMagnitude int64 `yaml:"array_max_magnitude"`

	// QuestionMaxLen bounds the AI question length in characters (default 500).
	QuestionMaxLen int `yaml:"question_max_len"`
}

// AnswerConfig selects and configures the external answering provider.
type AnswerConfig struct {
	// Provider is gemini | openai | anthropic, or empty to auto-detect.
	Provider string `yaml:"provider"`

	// Timeout bounds every provider call (default 10s).
	Timeout time.Duration `yaml:"timeout"`

	Gemini    ProviderConfig `yaml:"gemini"`
	OpenAI    ProviderConfig `yaml:"openai"`
	Anthropic ProviderConfig `yaml:"anthropic"`
}

// ProviderConfig describes one answering backend.
type ProviderConfig struct {
	// KeyEnv is the name of the environment variable that holds the API key.
	KeyEnv string `yaml:"key_env"`

	// Model is the provider model identifier.
	Model string `yaml:"model"`

	// Endpoint overrides the provider URL. For Gemini it is the SDK base URL.
	Endpoint string `yaml:"endpoint"`
}

// Key returns the API key resolved from the environment.
func (p ProviderConfig) Key() string {
	if p.KeyEnv == "" {
		return ""
	}
	return os.Getenv(p.KeyEnv)
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Production reports whether the server runs in production mode.
func (s ServerConfig) Production() bool {
	return s.Environment == EnvProduction
}

// Load reads and parses the config file at path. An empty path yields the
// defaults. Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:      DefaultHTTPPort,
			OfficialEmail: DefaultOfficialEmail,
			Environment:   DefaultEnvironment,
			LogLevel:      DefaultLogLevel,
			MaxBodyBytes:  DefaultMaxBodyBytes,
			RateLimit: RateLimitConfig{
				Enabled:     true,
				Window:      DefaultRateLimitWindow,
				MaxRequests: DefaultRateLimitMaxRequests,
			},
			CORS: CORSConfig{AllowedOrigins: []string{"*"}},
		},
		Limits: LimitsConfig{
			SequenceMax:       DefaultSequenceMax,
			ArrayMaxLen:       DefaultArrayMaxLen,
			ArrayMaxMagnitude: DefaultArrayMaxMagnitude,
			QuestionMaxLen:    DefaultQuestionMaxLen,
		},
		Answer: AnswerConfig{
			Timeout: DefaultAnswerTimeout,
			Gemini: ProviderConfig{
				KeyEnv: "GEMINI_API_KEY",
				Model:  DefaultGeminiModel,
			},
			OpenAI: ProviderConfig{
				KeyEnv:   "OPENAI_API_KEY",
				Model:    DefaultOpenAIModel,
				Endpoint: DefaultOpenAIURL,
			},
			Anthropic: ProviderConfig{
				KeyEnv:   "ANTHROPIC_API_KEY",
				Model:    DefaultAnthropicModel,
				Endpoint: DefaultAnthropicURL,
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// applyEnv lets the deployment environment override the file.
func applyEnv(cfg *Config) error {
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("PORT %q is not a number", p)
		}
		cfg.Server.HTTPPort = port
	}
	if e := strings.TrimSpace(os.Getenv("OFFICIAL_EMAIL")); e != "" {
		cfg.Server.OfficialEmail = e
	}
	return nil
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Environment {
	case EnvProduction, EnvDevelopment:
	default:
		return fmt.Errorf("server.environment %q unknown: want production|development", cfg.Server.Environment)
	}
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive")
	}
	if rl := cfg.Server.RateLimit; rl.Enabled && (rl.Window <= 0 || rl.MaxRequests <= 0) {
		return fmt.Errorf("server.rate_limit needs a positive window and max_requests when enabled")
	}

	l := cfg.Limits
	if l.SequenceMax < 0 {
		return fmt.Errorf("limits.sequence_max must not be negative")
	}
	if l.ArrayMaxLen <= 0 || l.ArrayMaxMagnitude <= 0 || l.QuestionMaxLen <= 0 {
		return fmt.Errorf("limits.array_max_len, array_max_magnitude and question_max_len must be positive")
	}

	switch cfg.Answer.Provider {
	case "", ProviderGemini, ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("answer.provider %q unknown: want gemini|openai|anthropic", cfg.Answer.Provider)
	}
	if cfg.Answer.Timeout <= 0 {
		return fmt.Errorf("answer.timeout must be positive")
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with /", cfg.Metrics.Path)
	}
	return nil
}
