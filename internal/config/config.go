package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Crisis   CrisisConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	LLMProvider   string // "perplexity" or "ollama"
	LLMModel      string // e.g. "sonar-pro", "llama3"
	PerplexityKey string
	OllamaBaseURL string
}

type CrisisConfig struct {
	// KeywordsFile optionally points to a newline-separated phrase list that
	// replaces the built-in curated one.
	KeywordsFile string
	// KeywordsVersion labels the active list for analytics.
	KeywordsVersion string
	// CooldownMinutes bounds automatic escalations to one per session per
	// window. 0 disables the guard.
	CooldownMinutes int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "MindfulChat Alert"),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "perplexity"),
			LLMModel:      getEnv("LLM_MODEL", "sonar-pro"),
			PerplexityKey: getEnv("PERPLEXITY_API_KEY", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Crisis: CrisisConfig{
			KeywordsFile:    getEnv("CRISIS_KEYWORDS_FILE", ""),
			KeywordsVersion: getEnv("CRISIS_KEYWORDS_VERSION", ""),
			CooldownMinutes: getEnvAsInt("ESCALATION_COOLDOWN_MINUTES", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
