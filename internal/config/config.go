package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Engine    EngineConfig
	Skills    SkillsConfig
	Embedding EmbeddingConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type EngineConfig struct {
	// DefaultAlpha is the weight given to the semantic score when the
	// request does not carry one (1-alpha goes to the keyword score).
	DefaultAlpha float64

	// MinInputLength rejects inputs shorter than this before the engine runs.
	MinInputLength int

	// MinChunkTokens filters header fragments and noise out of the
	// sentence chunker.
	MinChunkTokens int

	SectionWeights map[string]float64

	// DefaultSectionWeight applies to sections not present in SectionWeights.
	DefaultSectionWeight float64

	// Match-status thresholds, shared by the engine and the curator.
	GoodThreshold   float64
	MediumThreshold float64
	WeakThreshold   float64
}

type SkillsConfig struct {
	TaxonomyCSVPath string
	AddonCSVPath    string
	CachePath       string
}

type EmbeddingConfig struct {
	// Provider selects the embedding backend: "local" or "gemini".
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	LocalDims    int
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

func Load() *Config {
	// A missing .env is fine, the defaults below cover local runs.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Engine: EngineConfig{
			DefaultAlpha:   getEnvAsFloat("DEFAULT_ALPHA", 0.7),
			MinInputLength: getEnvAsInt("MIN_INPUT_LENGTH", 50),
			MinChunkTokens: getEnvAsInt("MIN_CHUNK_TOKENS", 3),
			SectionWeights: map[string]float64{
				// Boost the core signals above the neutral baseline.
				"experience": 1.3,
				"projects":   1.15,
				"education":  1.1,
				"skills":     1.05,

				// Neutral baseline for generic/intro content.
				"summary":       1.0,
				"uncategorized": 1.0,

				// Keep low for noisy/unmapped content.
				"other": 0.5,
			},
			DefaultSectionWeight: 0.1,
			GoodThreshold:        0.65,
			MediumThreshold:      0.45,
			WeakThreshold:        0.30,
		},
		Skills: SkillsConfig{
			TaxonomyCSVPath: getEnv("SKILLS_CSV_PATH", "data/raw/skills_en.csv"),
			AddonCSVPath:    getEnv("SKILLS_ADDON_CSV_PATH", "data/raw/skills_en_addons.csv"),
			CachePath:       getEnv("SKILLS_CACHE_PATH", "data/processed/skills_en.gob"),
		},
		Embedding: EmbeddingConfig{
			Provider:     getEnv("EMBEDDING_PROVIDER", "local"),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			LocalDims:    getEnvAsInt("LOCAL_EMBEDDING_DIMS", 384),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", defaultConcurrency()),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
	}
}

// SectionWeight returns the configured weight for a section, falling back
// to the default for unrecognized section names.
func (e *EngineConfig) SectionWeight(section string) float64 {
	if w, ok := e.SectionWeights[section]; ok {
		return w
	}
	return e.DefaultSectionWeight
}

// defaultConcurrency leaves one core free for the request-accepting loop.
func defaultConcurrency() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
