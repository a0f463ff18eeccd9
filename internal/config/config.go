package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	APIPort  string `yaml:"api_port"`
	LogLevel string `yaml:"log_level"`

	StoragePath string `yaml:"storage_path"`

	// Optional integrations; empty values disable them.
	PostgresDSN string `yaml:"postgres_dsn"`
	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	TopK             int     `yaml:"top_k"`
	AnswerOverfetch  int     `yaml:"answer_overfetch"`
	ConfidenceHigh   float64 `yaml:"confidence_high"`
	ConfidenceMedium float64 `yaml:"confidence_medium"`
	MaxAnswerChars   int     `yaml:"max_answer_chars"`

	RateLimitRPS          float64 `yaml:"rate_limit_rps"`
	RateLimitBurst        int     `yaml:"rate_limit_burst"`
	MaxConcurrentRequests int     `yaml:"max_concurrent_requests"`
}

// Load reads configuration from the environment, then overlays values from
// the YAML file named by CONFIG_FILE when it is set.
func Load() (Config, error) {
	cfg := Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		StoragePath: mustEnv("STORAGE_PATH", "./data/storage"),

		PostgresDSN: mustEnv("POSTGRES_DSN", ""),
		NATSURL:     mustEnv("NATS_URL", ""),
		NATSSubject: mustEnv("NATS_SUBJECT", "documents"),

		ChunkSize:    mustEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: mustEnvInt("CHUNK_OVERLAP", 200),

		TopK:             mustEnvInt("TOP_K", 4),
		AnswerOverfetch:  mustEnvInt("ANSWER_OVERFETCH", 2),
		ConfidenceHigh:   mustEnvFloat("CONFIDENCE_HIGH", 0.5),
		ConfidenceMedium: mustEnvFloat("CONFIDENCE_MEDIUM", 0.2),
		MaxAnswerChars:   mustEnvInt("MAX_ANSWER_CHARS", 4000),

		RateLimitRPS:          mustEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:        mustEnvInt("RATE_LIMIT_BURST", 100),
		MaxConcurrentRequests: mustEnvInt("MAX_CONCURRENT_REQUESTS", 64),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}
	return cfg, nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
