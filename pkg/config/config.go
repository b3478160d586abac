package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	OpenAI      OpenAIConfig      `mapstructure:"openai"`
	OCR         OCRConfig         `mapstructure:"ocr"`
	WhatsApp    WhatsAppConfig    `mapstructure:"whatsapp"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Store       StoreConfig       `mapstructure:"store"`
	Render      RenderConfig      `mapstructure:"render"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type OpenAIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Temperature       float64       `mapstructure:"temperature"`
	QuestionMaxTokens int           `mapstructure:"question_max_tokens"`
	SolutionMaxTokens int           `mapstructure:"solution_max_tokens"`
	HintMaxTokens     int           `mapstructure:"hint_max_tokens"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// Enabled reports whether the LLM pathway can be used at all; without a key
// every caller short-circuits to its deterministic fallback.
func (c OpenAIConfig) Enabled() bool { return c.APIKey != "" }

type OCRConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	APIKey          string        `mapstructure:"api_key"`
	Timeout         time.Duration `mapstructure:"timeout"`
	CacheSize       int           `mapstructure:"cache_size"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`
	MaxImageBytes   int64         `mapstructure:"max_image_bytes"`
}

type WhatsAppConfig struct {
	Endpoints        []string      `mapstructure:"endpoints"`
	APIToken         string        `mapstructure:"api_token"`
	AttemptTimeout   time.Duration `mapstructure:"attempt_timeout"`
	GlobalBudget     time.Duration `mapstructure:"global_budget"`
	BreakerThreshold uint32        `mapstructure:"breaker_threshold"`
	BreakerCooldown  time.Duration `mapstructure:"breaker_cooldown"`
	DedupTTL         time.Duration `mapstructure:"dedup_ttl"`
	DedupMax         int           `mapstructure:"dedup_max"`
}

// PersistenceConfig selects the durable backstop behind the in-memory state.
// Backend is one of "memory", "supabase", "postgres".
type PersistenceConfig struct {
	Backend     string         `mapstructure:"backend"`
	SupabaseURL string         `mapstructure:"supabase_url"`
	SupabaseKey string         `mapstructure:"supabase_key"`
	Database    DatabaseConfig `mapstructure:"database"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type StoreConfig struct {
	DebounceWindow    time.Duration `mapstructure:"debounce_window"`
	UpsertTimeout     time.Duration `mapstructure:"upsert_timeout"`
	FetchTimeout      time.Duration `mapstructure:"fetch_timeout"`
	RetrieveTimeout   time.Duration `mapstructure:"retrieve_timeout"`
	RetryInterval     time.Duration `mapstructure:"retry_interval"`
	RetryBase         time.Duration `mapstructure:"retry_base"`
	RetryCeiling      time.Duration `mapstructure:"retry_ceiling"`
	RetryMaxState     int           `mapstructure:"retry_max_state"`
	RetryMaxAnalytics int           `mapstructure:"retry_max_analytics"`
	QueueCap          int           `mapstructure:"queue_cap"`
	BreakerThreshold  uint32        `mapstructure:"breaker_threshold"`
	BreakerCooldown   time.Duration `mapstructure:"breaker_cooldown"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`
}

type RenderConfig struct {
	CacheSize int `mapstructure:"cache_size"`
	FontSize  int `mapstructure:"font_size"`
}

func parseDatabaseURL(dbURL string) (DatabaseConfig, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return DatabaseConfig{}, err
	}

	password, _ := u.User.Password()
	port := 5432 // default PostgreSQL port
	if u.Port() != "" {
		fmt.Sscanf(u.Port(), "%d", &port)
	}

	// Remove leading slash from path to get database name
	dbName := strings.TrimPrefix(u.Path, "/")

	return DatabaseConfig{
		Host:     u.Hostname(),
		Port:     port,
		User:     u.User.Username(),
		Password: password,
		DBName:   dbName,
		SSLMode:  "disable",
	}, nil
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.question_max_tokens", 200)
	v.SetDefault("openai.solution_max_tokens", 400)
	v.SetDefault("openai.hint_max_tokens", 350)
	v.SetDefault("openai.timeout", 8*time.Second)

	v.SetDefault("ocr.timeout", 15*time.Second)
	v.SetDefault("ocr.cache_size", 100)
	v.SetDefault("ocr.cache_ttl", 24*time.Hour)
	v.SetDefault("ocr.download_timeout", 10*time.Second)
	v.SetDefault("ocr.max_image_bytes", int64(5*1024*1024))

	v.SetDefault("whatsapp.endpoints", []string{
		"https://api.manychat.com/whatsapp/sending/sendFile",
		"https://api.manychat.com/fb/sending/sendFile",
	})
	v.SetDefault("whatsapp.attempt_timeout", 5*time.Second)
	v.SetDefault("whatsapp.global_budget", 10*time.Second)
	v.SetDefault("whatsapp.breaker_threshold", 3)
	v.SetDefault("whatsapp.breaker_cooldown", 120*time.Second)
	v.SetDefault("whatsapp.dedup_ttl", 5*time.Minute)
	v.SetDefault("whatsapp.dedup_max", 50)

	v.SetDefault("persistence.backend", "memory")
	v.SetDefault("persistence.database.host", "localhost")
	v.SetDefault("persistence.database.port", 5432)
	v.SetDefault("persistence.database.user", "postgres")
	v.SetDefault("persistence.database.sslmode", "disable")

	v.SetDefault("store.debounce_window", 500*time.Millisecond)
	v.SetDefault("store.upsert_timeout", 12*time.Second)
	v.SetDefault("store.fetch_timeout", 10*time.Second)
	v.SetDefault("store.retrieve_timeout", 3*time.Second)
	v.SetDefault("store.retry_interval", 30*time.Second)
	v.SetDefault("store.retry_base", time.Second)
	v.SetDefault("store.retry_ceiling", 45*time.Second)
	v.SetDefault("store.retry_max_state", 8)
	v.SetDefault("store.retry_max_analytics", 5)
	v.SetDefault("store.queue_cap", 200)
	v.SetDefault("store.breaker_threshold", 5)
	v.SetDefault("store.breaker_cooldown", 60*time.Second)
	v.SetDefault("store.session_ttl", 12*time.Hour)
	v.SetDefault("store.sweep_interval", time.Hour)

	v.SetDefault("render.cache_size", 200)
	v.SetDefault("render.font_size", 16)

	// Enable environment variable support
	v.AutomaticEnv()

	// Read the config file; a missing file is fine, env vars and defaults
	// cover container deployments.
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Check for DATABASE_URL environment variable
	if dbURL := v.GetString("DATABASE_URL"); dbURL != "" {
		dbConfig, err := parseDatabaseURL(dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DATABASE_URL: %v", err)
		}
		config.Persistence.Database = dbConfig
	}

	// Get other environment variables
	if key := v.GetString("OPENAI_API_KEY"); key != "" {
		config.OpenAI.APIKey = key
	}
	if u := v.GetString("SUPABASE_URL"); u != "" {
		config.Persistence.SupabaseURL = u
	}
	if key := v.GetString("SUPABASE_SERVICE_ROLE_KEY"); key != "" {
		config.Persistence.SupabaseKey = key
	}
	if token := v.GetString("MANYCHAT_API_TOKEN"); token != "" {
		config.WhatsApp.APIToken = token
	}
	if key := v.GetString("OCR_API_KEY"); key != "" {
		config.OCR.APIKey = key
	}
	if port := v.GetInt("PORT"); port != 0 {
		config.Server.Port = port
	}

	return &config, nil
}
