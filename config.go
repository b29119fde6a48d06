package nutrilookup

import "time"

// GeneratorConfig selects and tunes the text generation backend.
type GeneratorConfig struct {
	Backend        string        `env:"GENERATOR,default=gemini"`
	ModelID        string        `env:"MODEL_ID"`
	MaxTokens      int32         `env:"MAX_TOKENS,default=2048"`
	Temperature    float32       `env:"TEMPERATURE,default=0.2"`
	TopP           float32       `env:"TOP_P,default=0.9"`
	Timeout        time.Duration `env:"GENERATOR_TIMEOUT,default=30s"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL  string        `env:"GEMINI_BASE_URL,default=https://generativelanguage.googleapis.com/v1beta"`
	OllamaEndpoint string        `env:"OLLAMA_ENDPOINT,default=http://localhost:11434"`
}

// ServiceConfig holds the knobs of the lookup and suggestion pipelines.
type ServiceConfig struct {
	// MillilitreDensity is the g/mL factor applied to volume quantities. Kept at 1 unless the product says otherwise.
	MillilitreDensity float64 `env:"MILLILITRE_DENSITY,default=1"`
	MaxSuggestions    int     `env:"MAX_SUGGESTIONS,default=6"`
	MaxMeals          int     `env:"MAX_MEALS,default=10"`
}

type ServerConfig struct {
	Port           string   `env:"PORT,default=8080"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000;http://localhost:5173"`
}

// ArchiveConfig controls where exchange transcripts are written. An S3 bucket wins over the local directory.
type ArchiveConfig struct {
	Dir        string `env:"ARCHIVE_DIR,default=./logs"`
	S3Bucket   string `env:"ARCHIVE_S3_BUCKET"`
	S3Prefix   string `env:"ARCHIVE_S3_PREFIX,default=exchanges"`
	FlushEvery int    `env:"ARCHIVE_FLUSH_EVERY,default=50"`
}
