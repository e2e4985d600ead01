package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr string `env:"ADDR" envDefault:":8080"`

	// OracleBackend selects the answering engine once at startup:
	// "ollama" (local model) or "openai" (hosted API).
	OracleBackend string `env:"ORACLE_BACKEND" envDefault:"ollama"`
	OllamaHost    string `env:"OLLAMA_HOST" envDefault:"http://localhost:11434"`
	OllamaModel   string `env:"OLLAMA_MODEL" envDefault:"llama3.2:3b"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// DefaultRoom is joined by connections that name no room.
	DefaultRoom string `env:"DEFAULT_ROOM" envDefault:"main-room"`

	// AllowedOrigins holds origin host patterns accepted for websocket
	// upgrades; empty means same-origin only.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	Debug bool `env:"DEBUG"`
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
