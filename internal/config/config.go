package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
)

// Config holds the configuration for the application.
type Config struct {
	// LLM
	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	GroqAPIKey   string
	GroqModel    string

	// Storage
	DatabasePath string

	// Server
	Port string

	// Telegram (optional for the HTTP server, required for the bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables. A .env
// file in the working directory is loaded first when present.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	provider := strings.ToLower(os.Getenv("LLM_PROVIDER"))
	if provider == "" {
		provider = ProviderGemini
	}

	cfg := &Config{
		LLMProvider:        provider,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        os.Getenv("GEMINI_MODEL"),
		GroqAPIKey:         os.Getenv("GROQ_API_KEY"),
		GroqModel:          os.Getenv("GROQ_MODEL"),
		DatabasePath:       os.Getenv("DATABASE_PATH"),
		Port:               os.Getenv("PORT"),
		TelegramBotToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}

	switch provider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
		if cfg.GeminiModel == "" {
			cfg.GeminiModel = "gemini-1.5-flash"
		}
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
		if cfg.GroqModel == "" {
			cfg.GroqModel = "llama-3.3-70b-versatile"
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", provider)
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "data/menu-planner.db"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	if ids := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); ids != "" {
		for _, part := range strings.Split(ids, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS entry %q: %w", part, err)
			}
			cfg.TelegramAllowedUserIDs = append(cfg.TelegramAllowedUserIDs, id)
		}
	}

	return cfg, nil
}
