package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Memory   MemoryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string // Empty disables auth on the API
	SessionStore       string // "memory" or "redis"
	SessionTTLMinutes  int
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider string // "openrouter", "openai", "ollama"
	LLMBaseURL  string
	APIKey      string // Process-wide default credential

	OrchestratorModel string
	IngestionModel    string
	CoderModel        string
	AuditorModel      string
	RepairModel       string

	AutoAudit bool // Coder drafts are audited before they are returned

	// Generator/critic loop runs on a local model
	RefineProvider string
	RefineModel    string
	OllamaBaseURL  string

	EmbeddingProvider string // "ollama" or "hash"
	EmbeddingModel    string
	EmbeddingDims     int
}

type MemoryConfig struct {
	Backend  string // "file", "vector" or "pgvector"
	FilePath string
	TopK     int
}

const (
	MemoryBackendFile     = "file"
	MemoryBackendVector   = "vector"
	MemoryBackendPgVector = "pgvector"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}
	return FromEnv()
}

// FromEnv builds the config from the current environment only.
func FromEnv() *Config {
	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			SessionStore:       strings.ToLower(getEnv("SESSION_STORE", SessionStoreMemory)),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider: strings.ToLower(getEnv("LLM_PROVIDER", "openrouter")),
			LLMBaseURL:  getEnv("LLM_BASE_URL", ""),
			APIKey:      getEnv("OPENROUTER_API_KEY", ""),

			OrchestratorModel: getEnv("ORCHESTRATOR_MODEL", "xiaomi/mimo-v2-flash:free"),
			IngestionModel:    getEnv("INGESTION_MODEL", "google/gemini-2.0-flash-exp:free"),
			CoderModel:        getEnv("CODER_MODEL", "deepseek/deepseek-v3.2"),
			AuditorModel:      getEnv("AUDITOR_MODEL", "mistralai/devstral-2512:free"),
			RepairModel:       getEnv("REPAIR_MODEL", "mistralai/devstral-2512:free"),

			AutoAudit: getEnvAsBool("AUTO_AUDIT", true),

			RefineProvider: strings.ToLower(getEnv("REFINE_PROVIDER", "ollama")),
			RefineModel:    getEnv("REFINE_MODEL", "llama3"),
			OllamaBaseURL:  getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),

			EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", "hash")),
			EmbeddingModel:    getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			EmbeddingDims:     getEnvAsInt("EMBEDDING_DIMS", 768),
		},
		Memory: MemoryConfig{
			Backend:  strings.ToLower(getEnv("MEMORY_BACKEND", MemoryBackendFile)),
			FilePath: getEnv("MEMORY_FILE", "user_memory.json"),
			TopK:     getEnvAsInt("MEMORY_TOP_K", 2),
		},
	}
}

// IsProduction reports whether GO_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
