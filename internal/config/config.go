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
	Auth     AuthConfig
	Ai       AIConfig
	Quota    QuotaConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
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

type AuthConfig struct {
	JwtSecret          string
	TokenTTLHours      int
	GoogleClientID     string
	GoogleClientSecret string
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "groq"
	LLMModel      string // e.g. "llama3", "llama-3.1-8b-instant"
	ArtifactModel string // model used for document generation sub-calls; falls back to LLMModel
	OllamaBaseURL string
	GroqAPIKey    string
	GroqBaseURL   string
	StreamMaxSecs int // wall-clock ceiling for one chat turn
	HistoryWindow int // most recent messages submitted to the model
	MaxToolRounds int // tool-call <-> generating round bound
}

type QuotaConfig struct {
	GuestMessagesPerDay   int
	RegularMessagesPerDay int
	WindowHours           int
}

type StorageConfig struct {
	Driver         string // "minio" or "local"
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	LocalDir       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AiChat"),
		},
		Auth: AuthConfig{
			JwtSecret:          getEnv("JWT_SECRET", ""),
			TokenTTLHours:      getEnvAsInt("JWT_TTL_HOURS", 72),
			GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			ArtifactModel: getEnv("ARTIFACT_MODEL", ""),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			GroqAPIKey:    getEnv("GROQ_API_KEY", ""),
			GroqBaseURL:   getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			StreamMaxSecs: getEnvAsInt("STREAM_MAX_SECONDS", 60),
			HistoryWindow: getEnvAsInt("CHAT_HISTORY_WINDOW", 6),
			MaxToolRounds: getEnvAsInt("CHAT_MAX_TOOL_ROUNDS", 4),
		},
		Quota: QuotaConfig{
			GuestMessagesPerDay:   getEnvAsInt("QUOTA_GUEST_PER_DAY", 20),
			RegularMessagesPerDay: getEnvAsInt("QUOTA_REGULAR_PER_DAY", 100),
			WindowHours:           getEnvAsInt("QUOTA_WINDOW_HOURS", 24),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", "local"),
			MinioEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
			MinioBucket:    getEnv("MINIO_BUCKET", "chat-uploads"),
			MinioUseSSL:    getEnv("MINIO_USE_SSL", "false") == "true",
			LocalDir:       getEnv("UPLOAD_DIR", "./uploads"),
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
