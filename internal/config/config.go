// README: Config loader: optional config.yaml overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Addr    string
	GinMode string
	// TrustedProxies are IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string
}

type LLMConfig struct {
	Provider    string
	OllamaHost  string
	OllamaPort  int
	OllamaModel string
	GeminiKey   string
	GeminiModel string
}

// OllamaURL joins host and port, e.g. http://localhost:11434.
func (c LLMConfig) OllamaURL() string {
	return fmt.Sprintf("%s:%d", strings.TrimRight(c.OllamaHost, "/"), c.OllamaPort)
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
	Backend     string
	MaxClients  int
}

type Config struct {
	HTTP HTTPConfig
	LLM  LLMConfig
	Maps struct {
		APIKey string
	}
	RateLimit RateLimitConfig
	Redis     struct {
		Addr string
	}
	Log struct {
		Level string
		Mode  string
	}
	Tracing struct {
		Enabled bool
	}
}

// Load reads ./config/config.yaml or ./config.yaml when present, then applies
// environment overrides. Keys are the upper-case environment names in lower case.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	cfg.HTTP.Addr = v.GetString("http_addr")
	cfg.HTTP.GinMode = v.GetString("gin_mode")
	cfg.HTTP.TrustedProxies = splitList(v.GetString("trusted_proxies"))

	cfg.LLM.Provider = strings.ToLower(v.GetString("llm_provider"))
	cfg.LLM.OllamaHost = v.GetString("ollama_host")
	cfg.LLM.OllamaPort = v.GetInt("ollama_port")
	cfg.LLM.OllamaModel = v.GetString("ollama_model")
	cfg.LLM.GeminiKey = v.GetString("gemini_api_key")
	cfg.LLM.GeminiModel = v.GetString("gemini_model")

	cfg.Maps.APIKey = v.GetString("google_maps_api_key")

	cfg.RateLimit.MaxRequests = v.GetInt("max_requests_per_minute")
	cfg.RateLimit.Window = time.Duration(v.GetInt("rate_limit_window_seconds")) * time.Second
	cfg.RateLimit.Backend = strings.ToLower(v.GetString("rate_limit_backend"))
	cfg.RateLimit.MaxClients = v.GetInt("rate_limit_max_clients")
	cfg.Redis.Addr = v.GetString("redis_addr")

	cfg.Log.Level = v.GetString("log_level")
	cfg.Log.Mode = v.GetString("log_mode")
	cfg.Tracing.Enabled = v.GetBool("tracing_enabled")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("gin_mode", "release")
	v.SetDefault("trusted_proxies", "")

	v.SetDefault("llm_provider", "ollama")
	v.SetDefault("ollama_host", "http://localhost")
	v.SetDefault("ollama_port", 11434)
	v.SetDefault("ollama_model", "llama3")
	v.SetDefault("gemini_model", "gemini-2.0-flash")

	v.SetDefault("max_requests_per_minute", 60)
	v.SetDefault("rate_limit_window_seconds", 60)
	v.SetDefault("rate_limit_backend", "memory")
	v.SetDefault("rate_limit_max_clients", 10000)
	v.SetDefault("redis_addr", "localhost:6379")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_mode", "production")
	v.SetDefault("tracing_enabled", false)
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) validate() error {
	for _, p := range c.HTTP.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("config: TRUSTED_PROXIES entry %q is not an IP or CIDR", p)
		}
	}

	switch c.LLM.Provider {
	case "ollama":
	case "gemini":
		if c.LLM.GeminiKey == "" {
			return errors.New("config: GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend)
	}
	if c.RateLimit.Backend == "redis" && c.Redis.Addr == "" {
		return errors.New("config: REDIS_ADDR is required when RATE_LIMIT_BACKEND=redis")
	}
	if c.RateLimit.MaxRequests <= 0 {
		return errors.New("config: MAX_REQUESTS_PER_MINUTE must be positive")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("config: RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	return nil
}
