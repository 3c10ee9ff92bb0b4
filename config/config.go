package config

import (
	"log"
	"os"

	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the persistence settings.
type DatabaseConfig struct {
	DSN string // "memory" or a SQLite file path
}

// StreamConfig holds the content lifecycle and quota settings.
type StreamConfig struct {
	// MomentTTLSeconds is the authoritative moment retention, applied at
	// creation time. The sweep reads the stored expiry and carries no TTL
	// constant of its own.
	MomentTTLSeconds    int `mapstructure:"moment_ttl_seconds"`
	MaxDreamsPerDay     int `mapstructure:"max_dreams_per_day"`
	MaxMomentsPerHour   int `mapstructure:"max_moments_per_hour"`
	ResonanceThreshold  int `mapstructure:"resonance_threshold"`
	CleanupIntervalSecs int `mapstructure:"cleanup_interval_seconds"`
	EnrichmentQueueSize int `mapstructure:"enrichment_queue_size"`
}

// AIConfig holds the enrichment capability settings. When Enabled is false or
// the API key is absent, every AI operation degrades to its deterministic
// fallback.
type AIConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	APIKey        string `mapstructure:"-"` // loaded from OPENAI_API_KEY
	BaseURL       string `mapstructure:"base_url"`
	AnalysisModel string `mapstructure:"analysis_model"`
	RefineModel   string `mapstructure:"refine_model"`
	ImageModel    string `mapstructure:"image_model"`
	UploadDir     string `mapstructure:"upload_dir"`
}

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Stream   StreamConfig
	AI       AIConfig `mapstructure:"ai"`
}

// Load reads configuration from config.yaml and environment variables,
// applying defaults for anything missing. The returned value is injected into
// components at startup; there is no package-level instance.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetDefault("server.port", "8200")
	viper.SetDefault("database.dsn", "memory")
	viper.SetDefault("stream.moment_ttl_seconds", 60)
	viper.SetDefault("stream.max_dreams_per_day", 10)
	viper.SetDefault("stream.max_moments_per_hour", 20)
	viper.SetDefault("stream.resonance_threshold", 20)
	viper.SetDefault("stream.cleanup_interval_seconds", 60)
	viper.SetDefault("stream.enrichment_queue_size", 64)
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.analysis_model", "gpt-4o-mini")
	viper.SetDefault("ai.refine_model", "gpt-4o-mini")
	viper.SetDefault("ai.image_model", "dall-e-3")
	viper.SetDefault("ai.upload_dir", "./static/uploads/dreams")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Environment variable overrides.
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Server.Port = port
		log.Printf("INFO: [Config] Server port overridden by environment variable SERVER_PORT: %s", port)
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	// API keys never live in config.yaml.
	cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.AI.Enabled && cfg.AI.APIKey == "" {
		log.Println("WARN: [Config] AI features enabled but OPENAI_API_KEY is not set. All AI operations will use deterministic fallbacks.")
	}

	log.Println("INFO: [Config] Configuration loading complete.")
	return &cfg, nil
}
