package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Settings struct {
	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
	} `yaml:"jwt"`

	AI struct {
		Provider     string `yaml:"provider"`
		Model        string `yaml:"model"`
		GeminiAPIKey string `yaml:"gemini_api_key"`
		GroqAPIKey   string `yaml:"groq_api_key"`
		GroqBaseURL  string `yaml:"groq_base_url"`
	} `yaml:"ai"`

	SendGrid struct {
		APIKey    string `yaml:"api_key"`
		BaseURL   string `yaml:"base_url"`
		FromEmail string `yaml:"from_email"`
		FromName  string `yaml:"from_name"`
	} `yaml:"sendgrid"`

	Redis struct {
		Addr         string        `yaml:"addr"`
		HintCacheTTL time.Duration `yaml:"hint_cache_ttl"`
	} `yaml:"redis"`
}

func defaultSettings() *Settings {
	s := &Settings{}
	s.Server.Addr = ":8080"
	s.Server.CORSAllowedOrigins = []string{"*"}
	s.Log.Level = "info"
	s.AI.Provider = "groq"
	s.AI.GroqBaseURL = "https://api.groq.com/openai/v1"
	s.SendGrid.FromName = "Quizzer App"
	s.Redis.HintCacheTTL = 24 * time.Hour
	return s
}

// Load builds settings from defaults, then the YAML file at path (optional),
// then environment variables, each layer overriding the previous one.
func Load(path string) (*Settings, error) {
	s := defaultSettings()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, s); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	if port := env("PORT"); port != "" {
		s.Server.Addr = ":" + strings.TrimPrefix(port, ":")
	}
	if origins := env("CORS_ALLOWED_ORIGINS"); origins != "" {
		s.Server.CORSAllowedOrigins = splitList(origins)
	}
	setString(&s.Log.Level, "LOG_LEVEL")
	setString(&s.Database.DSN, "DATABASE_DSN")
	setString(&s.JWT.Secret, "JWT_SECRET")
	setString(&s.AI.Provider, "AI_PROVIDER")
	setString(&s.AI.Model, "AI_MODEL")
	setString(&s.AI.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&s.AI.GroqAPIKey, "GROQ_API_KEY")
	setString(&s.AI.GroqBaseURL, "GROQ_BASE_URL")
	setString(&s.SendGrid.APIKey, "SENDGRID_API_KEY")
	setString(&s.SendGrid.BaseURL, "SENDGRID_BASE_URL")
	setString(&s.SendGrid.FromEmail, "SENDGRID_FROM_EMAIL")
	setString(&s.SendGrid.FromName, "SENDGRID_FROM_NAME")
	setString(&s.Redis.Addr, "REDIS_ADDR")

	if ttl := env("HINT_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return fmt.Errorf("invalid HINT_CACHE_TTL %q: %w", ttl, err)
		}
		s.Redis.HintCacheTTL = d
	}

	s.AI.Provider = strings.ToLower(s.AI.Provider)
	return nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func setString(dst *string, name string) {
	if v := env(name); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
