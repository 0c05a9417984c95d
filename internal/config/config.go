package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMongo    = "mongo"
	StoreMySQL    = "mysql"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

// Development defaults for secrets. Production refuses to start with them.
const (
	DefaultJWTSecret        = "change-me"
	DefaultSysadminPassword = "sysadmin123"
)

// File storage backends accepted in FILE_STORAGE.
const (
	FileStorageLocal = "local"
	FileStorageMinIO = "minio"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string
	ServerPort string
	LogLevel   string

	StoreDriver string
	MongoURI    string
	MongoDB     string
	MySQLDSN    string
	PostgresDSN string
	SQLiteDSN   string

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret        string
	JWTExpiry        time.Duration
	ResetTokenExpiry time.Duration

	FrontendURL   string
	PublicBaseURL string
	CORSOrigins   string

	FileStorage    string
	UploadDir      string
	MaxUploadBytes int64
	MinIO          MinIOConfig

	SMTP SMTPConfig

	SentryDSN   string
	SwaggerHost string

	// AutoApproveAdminFeedback makes feedback written by an admin start out APPROVED.
	AutoApproveAdminFeedback bool
	SysadminPassword         string
}

// MinIOConfig configures the object store used for uploads when FILE_STORAGE=minio.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SMTPConfig configures password reset mail delivery. An empty Host disables sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:     getEnv("APP_ENV", "dev"),
		ServerPort: getEnv("SERVER_PORT", "8082"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		StoreDriver: getEnv("STORE_DRIVER", StoreMongo),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "swarm_feedback"),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/swarm_feedback?charset=utf8mb4&parseTime=True&loc=UTC"),
		PostgresDSN: getEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=swarm_feedback port=5432 sslmode=disable TimeZone=UTC"),
		SQLiteDSN:   getEnv("SQLITE_DSN", "swarm_feedback.db"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret:        getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpiry:        getEnvDuration("JWT_EXPIRY", 24*time.Hour),
		ResetTokenExpiry: getEnvDuration("RESET_TOKEN_EXPIRY", 15*time.Minute),

		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8082"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),

		FileStorage:    getEnv("FILE_STORAGE", FileStorageLocal),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    getEnv("MINIO_BUCKET", "swarm-uploads"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},

		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("MAIL_FROM", "no-reply@swarm.local"),
		},

		SentryDSN:   os.Getenv("SENTRY_DSN"),
		SwaggerHost: os.Getenv("SWAGGER_HOST"),

		AutoApproveAdminFeedback: getEnvBool("FEEDBACK_AUTO_APPROVE_ADMIN", true),
		SysadminPassword:         getEnv("SYSADMIN_PASSWORD", DefaultSysadminPassword),
	}
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// InsecureDefaults lists the secret keys still set to their development default.
func (c *Config) InsecureDefaults() []string {
	var keys []string
	if c.JWTSecret == DefaultJWTSecret {
		keys = append(keys, "JWT_SECRET")
	}
	if c.SysadminPassword == DefaultSysadminPassword {
		keys = append(keys, "SYSADMIN_PASSWORD")
	}
	return keys
}

// Validate rejects development secrets in production.
func (c *Config) Validate() error {
	if keys := c.InsecureDefaults(); len(keys) > 0 && c.IsProduction() {
		return fmt.Errorf("%v must be set in %s", keys, c.AppEnv)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
