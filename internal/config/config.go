package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewSiteConfigHolder),
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	NodeID      int64
	PublicDir   string

	Telemetry TelemetryConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
	DBAutoMigrate     bool

	Auth      AuthConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	CORS      CORSConfig
}

// TelemetryConfig follows the OTEL_* variable names so a collector sidecar
// can be configured the same way for every service.
type TelemetryConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
	LogLevel      string
	LogFormat     string
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	CookieName  string
	DefaultRole string
}

type StorageConfig struct {
	Driver           string
	Bucket           string
	PublicBaseURL    string
	GCSCredentials   string
	SupabaseURL      string
	SupabaseKey      string
	MaxImageBytes    int64
	MaxDocumentBytes int64
}

type RateLimitConfig struct {
	Enabled                bool
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	SubmitRate             float64
	SubmitBurst            int
	// DuplicateWindowSeconds suppresses concurrent resubmits from one client.
	DuplicateWindowSeconds int
	IPHashSalt             string
}

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	LeadNotify   []string
}

type CORSConfig struct {
	AllowOrigins []string
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "homestead"),
		AppVersion:   getenv("SERVICE_VERSION", getenv("APP_VERSION", "0.1.0")),
		Environment:  getenv("DEPLOYMENT_ENV", getenv("ENVIRONMENT", "development")),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		NodeID:       getenvInt64("NODE_ID", 1),
		PublicDir:    getenv("PUBLIC_DIR", "./public"),
		Telemetry:    loadTelemetry(),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "postgres"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 300),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 60),
		DBAutoMigrate:     getenvBool("DATABASE_AUTO_MIGRATE", true),

		Auth: AuthConfig{
			JWTSecret:   strings.TrimSpace(getenv("AUTH_JWT_SECRET", "")),
			JWTIssuer:   strings.TrimSpace(getenv("AUTH_JWT_ISSUER", "")),
			CookieName:  getenv("AUTH_COOKIE_NAME", "sb-access-token"),
			DefaultRole: strings.ToLower(strings.TrimSpace(getenv("AUTH_DEFAULT_ROLE", ""))),
		},
		Storage: StorageConfig{
			Driver:           strings.ToLower(getenv("STORAGE_DRIVER", "supabase")),
			Bucket:           getenv("STORAGE_BUCKET", "site-media"),
			PublicBaseURL:    strings.TrimRight(getenv("STORAGE_PUBLIC_BASE_URL", ""), "/"),
			GCSCredentials:   strings.TrimSpace(getenv("GCS_CREDENTIALS_FILE", "")),
			SupabaseURL:      strings.TrimRight(getenv("SUPABASE_URL", ""), "/"),
			SupabaseKey:      strings.TrimSpace(getenv("SUPABASE_SERVICE_ROLE_KEY", "")),
			MaxImageBytes:    getenvInt64("UPLOAD_MAX_IMAGE_BYTES", 5<<20),
			MaxDocumentBytes: getenvInt64("UPLOAD_MAX_DOCUMENT_BYTES", 10<<20),
		},
		RateLimit: RateLimitConfig{
			Enabled:                getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:              getenv("RATE_LIMIT_REDIS_ADDR", "localhost:6379"),
			RedisPassword:          getenv("RATE_LIMIT_REDIS_PASSWORD", ""),
			RedisDB:                getenvInt("RATE_LIMIT_REDIS_DB", 0),
			SubmitRate:             getenvFloat("RATE_LIMIT_SUBMIT_RATE", 0.05),
			SubmitBurst:            getenvInt("RATE_LIMIT_SUBMIT_BURST", 5),
			DuplicateWindowSeconds: getenvInt("RATE_LIMIT_DUPLICATE_WINDOW_SECONDS", 5),
			IPHashSalt:             getenv("IP_HASH_SALT", "homestead"),
		},
		Email: EmailConfig{
			SMTPHost:     getenv("SMTP_HOST", ""),
			SMTPPort:     getenvInt("SMTP_PORT", 587),
			SMTPUsername: getenv("SMTP_USERNAME", ""),
			SMTPPassword: getenv("SMTP_PASSWORD", ""),
			SMTPFrom:     getenv("SMTP_FROM", ""),
			LeadNotify:   splitList(getenv("LEAD_NOTIFY_EMAILS", "")),
		},
		CORS: CORSConfig{
			AllowOrigins: splitList(getenv("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		},
	}

	return cfg
}

func loadTelemetry() TelemetryConfig {
	protocol := getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	protocol = getenv("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL", protocol)

	return TelemetryConfig{
		Enabled:       getenvBool("OTEL_ENABLED", false),
		Endpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", getenv("OTLP_ENDPOINT", "localhost:4317"))),
		Protocol:      strings.ToLower(strings.TrimSpace(protocol)),
		SamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),
		LogLevel:      strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat:     strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	return int(getenvInt64(key, int64(def)))
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
