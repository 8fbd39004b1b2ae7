package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Service   ServiceConfig
	Google    GoogleConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
	Downloads DownloadsConfig
	CORS      CORSConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

// ServiceConfig points at the remote Resulto API.
type ServiceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GoogleConfig carries the OAuth client ID used to pre-verify ID tokens.
// Empty means pre-verification is skipped and the remote exchange decides.
type GoogleConfig struct {
	ClientID string
}

// CheckoutConfig configures the hosted checkout provider.
type CheckoutConfig struct {
	ServerKey string
	Sandbox   bool
	Amount    int64
	Currency  string
}

// SessionConfig controls durable token storage.
type SessionConfig struct {
	TokenPath string
}

// DownloadsConfig controls where exported artifacts land and how long they live.
type DownloadsConfig struct {
	Dir             string
	TTL             time.Duration
	CleanupInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Service = ServiceConfig{
		BaseURL: strings.TrimRight(v.GetString("RESULTO_API_URL"), "/"),
		Timeout: parseDuration(v.GetString("RESULTO_API_TIMEOUT"), 60*time.Second),
	}

	cfg.Google = GoogleConfig{ClientID: v.GetString("GOOGLE_CLIENT_ID")}

	cfg.Checkout = CheckoutConfig{
		ServerKey: v.GetString("CHECKOUT_SERVER_KEY"),
		Sandbox:   v.GetBool("CHECKOUT_SANDBOX"),
		Amount:    v.GetInt64("CHECKOUT_AMOUNT"),
		Currency:  v.GetString("CHECKOUT_CURRENCY"),
	}

	cfg.Session = SessionConfig{TokenPath: v.GetString("SESSION_TOKEN_PATH")}

	cfg.Downloads = DownloadsConfig{
		Dir:             v.GetString("DOWNLOADS_DIR"),
		TTL:             parseDuration(v.GetString("DOWNLOADS_TTL"), 14*24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("DOWNLOADS_CLEANUP_INTERVAL"), 24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Metrics = MetricsConfig{Enabled: v.GetBool("ENABLE_METRICS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)

	v.SetDefault("RESULTO_API_URL", "https://resulto.onrender.com/api")
	v.SetDefault("RESULTO_API_TIMEOUT", "60s")

	v.SetDefault("GOOGLE_CLIENT_ID", "")

	v.SetDefault("CHECKOUT_SERVER_KEY", "")
	v.SetDefault("CHECKOUT_SANDBOX", true)
	v.SetDefault("CHECKOUT_AMOUNT", 150000)
	v.SetDefault("CHECKOUT_CURRENCY", "NGN")

	v.SetDefault("SESSION_TOKEN_PATH", "./.resulto/token")

	v.SetDefault("DOWNLOADS_DIR", "./downloads")
	v.SetDefault("DOWNLOADS_TTL", "336h")
	v.SetDefault("DOWNLOADS_CLEANUP_INTERVAL", "24h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
