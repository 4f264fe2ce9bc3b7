package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	S3        S3Config
	Log       LogConfig
	Extractor ExtractorConfig
	Verifier  VerifierConfig
	Corpus    CorpusConfig
	Tagger    TaggerConfig
	CORS      CORSConfig
}

// ExtractorProviderConfig holds settings for a single LLM extractor provider.
type ExtractorProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds claim extraction settings with multi-provider support
// for the cloud path and a switch for the local tagging path.
type ExtractorConfig struct {
	Backend string `mapstructure:"backend"` // "cloud" or "local"

	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
	Tertiary  ExtractorProviderConfig `mapstructure:"tertiary"`
}

// SecondaryConfig returns the secondary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary extractor provider config, or nil if not configured.
func (e *ExtractorConfig) TertiaryConfig() *ExtractorProviderConfig {
	if e.Tertiary.Provider != "" {
		return &e.Tertiary
	}
	return nil
}

// VerifierConfig holds eligibility verification settings.
type VerifierConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	Offline      bool   `mapstructure:"offline"`
}

// CorpusConfig holds policy corpus and retrieval settings.
type CorpusConfig struct {
	Dir               string        `mapstructure:"dir"`
	ChunkSize         int           `mapstructure:"chunk_size"`
	ChunkOverlap      int           `mapstructure:"chunk_overlap"`
	TopK              int           `mapstructure:"top_k"`
	EmbeddingProvider string        `mapstructure:"embedding_provider"`
	EmbeddingAPIKey   string        `mapstructure:"embedding_api_key"`
	EmbeddingModel    string        `mapstructure:"embedding_model"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
}

// TaggerConfig holds settings for the local sequence-tagging path.
type TaggerConfig struct {
	InferenceURL   string `mapstructure:"inference_url"`
	ManifestPath   string `mapstructure:"manifest_path"`
	VocabularyPath string `mapstructure:"vocabulary_path"`
	SequenceLength int    `mapstructure:"sequence_length"`
	TimeoutSecs    int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds attachment archive storage settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the POLISURE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("POLISURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "polisure")
	v.SetDefault("db.password", "polisure_secret")
	v.SetDefault("db.name", "polisure_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "polisure")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "polisure-attachments")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.backend", "cloud")
	v.SetDefault("extractor.primary.provider", "claude")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 120)
	v.SetDefault("extractor.tertiary.provider", "")
	v.SetDefault("extractor.tertiary.api_key", "")
	v.SetDefault("extractor.tertiary.default_model", "")
	v.SetDefault("extractor.tertiary.timeout_secs", 120)

	// Verifier defaults
	v.SetDefault("verifier.provider", "claude")
	v.SetDefault("verifier.api_key", "")
	v.SetDefault("verifier.default_model", "claude-sonnet-4-20250514")
	v.SetDefault("verifier.timeout_secs", 120)
	v.SetDefault("verifier.offline", false)

	// Corpus defaults
	v.SetDefault("corpus.dir", "./policies")
	v.SetDefault("corpus.chunk_size", 1200)
	v.SetDefault("corpus.chunk_overlap", 200)
	v.SetDefault("corpus.top_k", 4)
	v.SetDefault("corpus.embedding_provider", "openai")
	v.SetDefault("corpus.embedding_api_key", "")
	v.SetDefault("corpus.embedding_model", "text-embedding-3-small")
	v.SetDefault("corpus.cache_ttl", "1h")

	// Tagger defaults
	v.SetDefault("tagger.inference_url", "")
	v.SetDefault("tagger.manifest_path", "")
	v.SetDefault("tagger.vocabulary_path", "")
	v.SetDefault("tagger.sequence_length", 512)
	v.SetDefault("tagger.timeout_secs", 30)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "POLISURE_SERVER_PORT",
		"server.read_timeout":              "POLISURE_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "POLISURE_SERVER_WRITE_TIMEOUT",
		"server.environment":               "POLISURE_SERVER_ENVIRONMENT",
		"db.host":                          "POLISURE_DB_HOST",
		"db.port":                          "POLISURE_DB_PORT",
		"db.user":                          "POLISURE_DB_USER",
		"db.password":                      "POLISURE_DB_PASSWORD",
		"db.name":                          "POLISURE_DB_NAME",
		"db.sslmode":                       "POLISURE_DB_SSLMODE",
		"db.max_open":                      "POLISURE_DB_MAX_OPEN",
		"db.max_idle":                      "POLISURE_DB_MAX_IDLE",
		"jwt.secret":                       "POLISURE_JWT_SECRET",
		"jwt.access_expiry":                "POLISURE_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":               "POLISURE_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                       "POLISURE_JWT_ISSUER",
		"s3.region":                        "POLISURE_S3_REGION",
		"s3.bucket":                        "POLISURE_S3_BUCKET",
		"s3.endpoint":                      "POLISURE_S3_ENDPOINT",
		"s3.access_key":                    "POLISURE_S3_ACCESS_KEY",
		"s3.secret_key":                    "POLISURE_S3_SECRET_KEY",
		"s3.max_file_size_mb":              "POLISURE_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":                "POLISURE_S3_PRESIGN_EXPIRY",
		"log.level":                        "POLISURE_LOG_LEVEL",
		"log.format":                       "POLISURE_LOG_FORMAT",
		"cors.allowed_origins":             "POLISURE_CORS_ALLOWED_ORIGINS",
		"extractor.backend":                "POLISURE_EXTRACTOR_BACKEND",
		"extractor.primary.provider":       "POLISURE_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":        "POLISURE_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":  "POLISURE_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":   "POLISURE_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":      "POLISURE_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":       "POLISURE_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "POLISURE_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs":  "POLISURE_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"extractor.tertiary.provider":       "POLISURE_EXTRACTOR_TERTIARY_PROVIDER",
		"extractor.tertiary.api_key":        "POLISURE_EXTRACTOR_TERTIARY_API_KEY",
		"extractor.tertiary.default_model":  "POLISURE_EXTRACTOR_TERTIARY_DEFAULT_MODEL",
		"extractor.tertiary.timeout_secs":   "POLISURE_EXTRACTOR_TERTIARY_TIMEOUT_SECS",
		"verifier.provider":                "POLISURE_VERIFIER_PROVIDER",
		"verifier.api_key":                 "POLISURE_VERIFIER_API_KEY",
		"verifier.default_model":           "POLISURE_VERIFIER_DEFAULT_MODEL",
		"verifier.timeout_secs":            "POLISURE_VERIFIER_TIMEOUT_SECS",
		"verifier.offline":                 "POLISURE_VERIFIER_OFFLINE",
		"corpus.dir":                       "POLISURE_CORPUS_DIR",
		"corpus.chunk_size":                "POLISURE_CORPUS_CHUNK_SIZE",
		"corpus.chunk_overlap":             "POLISURE_CORPUS_CHUNK_OVERLAP",
		"corpus.top_k":                     "POLISURE_CORPUS_TOP_K",
		"corpus.embedding_provider":        "POLISURE_CORPUS_EMBEDDING_PROVIDER",
		"corpus.embedding_api_key":         "POLISURE_CORPUS_EMBEDDING_API_KEY",
		"corpus.embedding_model":           "POLISURE_CORPUS_EMBEDDING_MODEL",
		"corpus.cache_ttl":                 "POLISURE_CORPUS_CACHE_TTL",
		"tagger.inference_url":             "POLISURE_TAGGER_INFERENCE_URL",
		"tagger.manifest_path":             "POLISURE_TAGGER_MANIFEST_PATH",
		"tagger.vocabulary_path":           "POLISURE_TAGGER_VOCABULARY_PATH",
		"tagger.sequence_length":           "POLISURE_TAGGER_SEQUENCE_LENGTH",
		"tagger.timeout_secs":              "POLISURE_TAGGER_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if POLISURE_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("POLISURE_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extractor = ExtractorConfig{
		Backend: v.GetString("extractor.backend"),
		Primary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
		Tertiary: ExtractorProviderConfig{
			Provider:     v.GetString("extractor.tertiary.provider"),
			APIKey:       v.GetString("extractor.tertiary.api_key"),
			DefaultModel: v.GetString("extractor.tertiary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.tertiary.timeout_secs"),
		},
	}

	cfg.Verifier = VerifierConfig{
		Provider:     v.GetString("verifier.provider"),
		APIKey:       v.GetString("verifier.api_key"),
		DefaultModel: v.GetString("verifier.default_model"),
		TimeoutSecs:  v.GetInt("verifier.timeout_secs"),
		Offline:      v.GetBool("verifier.offline"),
	}

	cfg.Corpus = CorpusConfig{
		Dir:               v.GetString("corpus.dir"),
		ChunkSize:         v.GetInt("corpus.chunk_size"),
		ChunkOverlap:      v.GetInt("corpus.chunk_overlap"),
		TopK:              v.GetInt("corpus.top_k"),
		EmbeddingProvider: v.GetString("corpus.embedding_provider"),
		EmbeddingAPIKey:   v.GetString("corpus.embedding_api_key"),
		EmbeddingModel:    v.GetString("corpus.embedding_model"),
		CacheTTL:          v.GetDuration("corpus.cache_ttl"),
	}

	cfg.Tagger = TaggerConfig{
		InferenceURL:   v.GetString("tagger.inference_url"),
		ManifestPath:   v.GetString("tagger.manifest_path"),
		VocabularyPath: v.GetString("tagger.vocabulary_path"),
		SequenceLength: v.GetInt("tagger.sequence_length"),
		TimeoutSecs:    v.GetInt("tagger.timeout_secs"),
	}

	return cfg, nil
}
