package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/docchat/internal/entity"
	pkgRetry "github.com/futig/docchat/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Search backends
const (
	SearchBackendRemote = "remote"
	SearchBackendLocal  = "local"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr  string `env:"SERVER_ADDR" envDefault:":8080"`
	SwaggerFile string `env:"SWAGGER_FILE" envDefault:"docs/swagger.yaml"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectAttempts   uint          `env:"DB_CONNECT_ATTEMPTS" envDefault:"5"`

	// External service configurations
	SearchCfg  SearchConfig           `envPrefix:"SEARCH_"`
	LLMCfg     LLMConnectorConfig     `envPrefix:"LLM_"`
	StorageCfg StorageConnectorConfig `envPrefix:"STORAGE_"`

	// Conversation pipeline
	ChatCfg    ChatConfig    `envPrefix:"CHAT_"`
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Ingestion
	IngestCfg     IngestConfig     `envPrefix:"INGEST_"`
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Optional YAML file overriding the built-in model catalog
	ModelsFile string `env:"MODELS_FILE"`
	Models     entity.ModelCatalog

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string        `env:"BOT_TOKEN"`
	UpdateTimeout      int           `env:"UPDATE_TIMEOUT" envDefault:"60"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

// SearchConfig selects and configures the Chunk Store search backend
type SearchConfig struct {
	Backend string `env:"BACKEND" envDefault:"remote"`
	HTTPClientConfig
	QueryEndpoint string               `env:"QUERY_ENDPOINT" envDefault:"/query"`
	IndexPath     string               `env:"INDEX_PATH" envDefault:"data/chunks.bleve"`
	Retry         pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	CompleteEndpoint string               `env:"COMPLETE_ENDPOINT" envDefault:"/complete"`
	DefaultModel     string               `env:"DEFAULT_MODEL" envDefault:"mixtral-8x7b"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type StorageConnectorConfig struct {
	HTTPClientConfig
	UploadEndpoint  string               `env:"UPLOAD_ENDPOINT" envDefault:"/objects"`
	PresignEndpoint string               `env:"PRESIGN_ENDPOINT" envDefault:"/presign"`
	URLTTL          time.Duration        `env:"URL_TTL" envDefault:"360s"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"5s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"60s"`
	MaxConnsPerHost       int           `env:"MAX_CONNS_PER_HOST" envDefault:"16"`
	Token                 string        `env:"TOKEN"`
	APIKeyHeader          string        `env:"API_KEY_HEADER"` // send Token in this header instead of a bearer Authorization
	Url                   string        `env:"SERVICE_URL"`
}

// ChatConfig tunes the per-turn answer pipeline
type ChatConfig struct {
	WindowSize          int           `env:"WINDOW_SIZE" envDefault:"7"`
	ResultLimit         int           `env:"RESULT_LIMIT" envDefault:"3"`
	AnswerReserveTokens int           `env:"ANSWER_RESERVE_TOKENS" envDefault:"512"`
	ReformulateTimeout  time.Duration `env:"REFORMULATE_TIMEOUT" envDefault:"20s"`
	RetrieveTimeout     time.Duration `env:"RETRIEVE_TIMEOUT" envDefault:"10s"`
	GenerateTimeout     time.Duration `env:"GENERATE_TIMEOUT" envDefault:"60s"`
}

// SessionConfig controls the lifetime of idle sessions
type SessionConfig struct {
	IdleTTL         time.Duration `env:"IDLE_TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"5m"`
}

// IngestConfig controls document splitting and the optional inbox watcher
type IngestConfig struct {
	ChunkSize     int           `env:"CHUNK_SIZE" envDefault:"1512"`
	ChunkOverlap  int           `env:"CHUNK_OVERLAP" envDefault:"256"`
	WatchDir      string        `env:"WATCH_DIR"`
	WatchDebounce time.Duration `env:"WATCH_DEBOUNCE" envDefault:"500ms"`
}

// FileUploadConfig holds file upload limits
type FileUploadConfig struct {
	MaxFileSize   int64 `env:"MAX_FILE_SIZE" envDefault:"26214400"`   // 25 MiB
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"33554432"` // 32 MiB
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	models, err := LoadModelCatalog(cfg.ModelsFile)
	if err != nil {
		return nil, fmt.Errorf("load model catalog: %w", err)
	}
	cfg.Models = models

	if smallest := models.MinContextWindow(); cfg.ChatCfg.AnswerReserveTokens >= smallest {
		return nil, fmt.Errorf("config validation failed: CHAT_ANSWER_RESERVE_TOKENS=%d leaves no prompt room in a %d token context window", cfg.ChatCfg.AnswerReserveTokens, smallest)
	}

	if _, ok := models.Lookup(entity.ModelID(cfg.LLMCfg.DefaultModel)); !ok {
		return nil, fmt.Errorf("%w: LLM_DEFAULT_MODEL=%s", entity.ErrUnsupportedModel, cfg.LLMCfg.DefaultModel)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.SearchCfg.Backend != SearchBackendRemote && cfg.SearchCfg.Backend != SearchBackendLocal {
		errors = append(errors, fmt.Sprintf("SEARCH_BACKEND must be %q or %q, got %q", SearchBackendRemote, SearchBackendLocal, cfg.SearchCfg.Backend))
	}

	if !cfg.EnableMocks {
		if cfg.SearchCfg.Backend == SearchBackendRemote && cfg.SearchCfg.Url == "" {
			errors = append(errors, "SEARCH_SERVICE_URL is required for the remote search backend")
		}
		if cfg.LLMCfg.Url == "" {
			errors = append(errors, "LLM_SERVICE_URL is required")
		}
		if cfg.StorageCfg.Url == "" {
			errors = append(errors, "STORAGE_SERVICE_URL is required")
		}
	}

	if cfg.ChatCfg.WindowSize < 1 || cfg.ChatCfg.WindowSize > 100 {
		errors = append(errors, fmt.Sprintf("CHAT_WINDOW_SIZE must be between 1 and 100, got %d", cfg.ChatCfg.WindowSize))
	}

	if cfg.ChatCfg.ResultLimit < 1 || cfg.ChatCfg.ResultLimit > 50 {
		errors = append(errors, fmt.Sprintf("CHAT_RESULT_LIMIT must be between 1 and 50, got %d", cfg.ChatCfg.ResultLimit))
	}

	if cfg.ChatCfg.AnswerReserveTokens < 0 {
		errors = append(errors, fmt.Sprintf("CHAT_ANSWER_RESERVE_TOKENS must not be negative, got %d", cfg.ChatCfg.AnswerReserveTokens))
	}

	if cfg.IngestCfg.ChunkSize < 1 {
		errors = append(errors, fmt.Sprintf("INGEST_CHUNK_SIZE must be positive, got %d", cfg.IngestCfg.ChunkSize))
	}

	if cfg.IngestCfg.ChunkOverlap < 0 || cfg.IngestCfg.ChunkOverlap >= cfg.IngestCfg.ChunkSize {
		errors = append(errors, fmt.Sprintf("INGEST_CHUNK_OVERLAP must be between 0 and INGEST_CHUNK_SIZE(%d), got %d", cfg.IngestCfg.ChunkSize, cfg.IngestCfg.ChunkOverlap))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
