package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Corpus CorpusConfig
	Ai     AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type CorpusConfig struct {
	// CSVPath points at the recipe knowledge-graph corpus.
	CSVPath string
	// DataDir holds the per-user conversation and history files.
	DataDir string
	// SnapshotDir receives the KG<rank>.csv exports for the frontend.
	SnapshotDir string
	// Relation names of the corpus; override when the corpus uses a
	// different labeling scheme.
	EffectRelation     string
	IngredientRelation string
}

type AIConfig struct {
	LLMProvider       string // "azure" or "ollama"
	AzureEndpoint     string
	AzureDeployment   string
	AzureAPIKey       string
	AzureAPIVersion   string
	OllamaBaseURL     string
	LLMModel          string
	RequestTimeoutSec int
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
		},
		Corpus: CorpusConfig{
			CSVPath:            getEnv("CORPUS_CSV_PATH", "data/recipes_kg.csv"),
			DataDir:            getEnv("DATA_DIR", "data"),
			SnapshotDir:        getEnv("SNAPSHOT_DIR", "data/snapshots"),
			EffectRelation:     getEnv("EFFECT_RELATION", ""),
			IngredientRelation: getEnv("INGREDIENT_RELATION", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			AzureEndpoint:     getEnv("AZURE_OPENAI_ENDPOINT", ""),
			AzureDeployment:   getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o"),
			AzureAPIKey:       getEnv("AZURE_OPENAI_API_KEY", ""),
			AzureAPIVersion:   getEnv("AZURE_OPENAI_API_VERSION", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMModel:          getEnv("LLM_MODEL", ""),
			RequestTimeoutSec: getEnvAsInt("LLM_REQUEST_TIMEOUT_SECONDS", 120),
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
