package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string
	DBUrl    string
	// DBSimpleProtocol disables prepared statements (PgBouncer transaction mode)
	DBSimpleProtocol bool
	// MigrationsURL overrides the embedded migrations, e.g. file://internal/db/migrations
	MigrationsURL string
	// PublicBaseURL is used to absolutize relative media URLs when no request host is known
	PublicBaseURL string
	FrontendURL   string

	// Tokens
	JWTSecret        string
	AccessTokenTTL   time.Duration
	RefreshTokenTTL  time.Duration
	PasswordResetTTL time.Duration

	// SMTP
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromEmail string

	// Redis
	RedisURL      string
	RedisPassword string

	// Blob storage: local, s3 or minio
	StorageType      string
	LocalStoragePath string
	LocalStorageURL  string
	S3Region         string
	S3Bucket         string
	S3AccessKeyID    string
	S3SecretKey      string
	S3Endpoint       string
	S3PublicURL      string
	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioBucket      string
	MinioUseSSL      bool
	MinioPublicURL   string

	// RabbitMQ; empty URL disables event publishing
	RabbitMQURL      string
	RabbitMQExchange string

	CORSAllowedOrigins []string

	// Proxy addresses or CIDRs whose X-Forwarded-* headers are believed; empty trusts none
	TrustedProxies []string

	// Rate limiting and login protection
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	FailedLoginBlockMinutes  int
	FailedLoginMaxAttempts   int
	FailedLoginIPMaxAttempts int

	MaxUploadBytes int64

	// Per client upload quotas, enforced only when Redis is available
	UploadRatePerMinute int
	UploadRatePerDay    int

	// ClamAV daemon as host:port or a socket path; empty disables scanning
	ClamAVAddress string
	ClamAVTimeout time.Duration

	DBMaxConns int32
	DBMinConns int32
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		LogLevel:         getEnv("LOG_LEVEL", "debug"),
		DBUrl:            getEnv("DATABASE_URL", ""),
		DBSimpleProtocol: getEnvBool("DB_SIMPLE_PROTOCOL", false),
		MigrationsURL:    getEnv("MIGRATIONS_URL", ""),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		FrontendURL:      strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		AccessTokenTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		RefreshTokenTTL:  time.Duration(getEnvInt("REFRESH_TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		PasswordResetTTL: time.Duration(getEnvInt("PASSWORD_RESET_TTL_HOURS", 72)) * time.Hour,

		SMTPHost:      getEnv("SMTP_HOST", "localhost"),
		SMTPPort:      getEnvInt("SMTP_PORT", 587),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail: getEnv("SMTP_FROM_EMAIL", "noreply@jobmarket.local"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		StorageType:      strings.ToLower(getEnv("STORAGE_TYPE", "local")),
		LocalStoragePath: getEnv("LOCAL_STORAGE_PATH", "./media"),
		LocalStorageURL:  getEnv("LOCAL_STORAGE_URL", "/media"),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3AccessKeyID:    getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:      getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3PublicURL:      strings.TrimRight(getEnv("S3_PUBLIC_URL", ""), "/"),
		MinioEndpoint:    getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:   getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:   getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:      getEnv("MINIO_BUCKET", "media"),
		MinioUseSSL:      getEnvBool("MINIO_USE_SSL", false),
		MinioPublicURL:   strings.TrimRight(getEnv("MINIO_PUBLIC_URL", ""), "/"),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "jobmarket.events"),

		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		TrustedProxies:     getEnvList("TRUSTED_PROXIES", nil),

		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		FailedLoginBlockMinutes:  getEnvInt("FAILED_LOGIN_BLOCK_MINUTES", 15),
		FailedLoginMaxAttempts:   getEnvInt("FAILED_LOGIN_MAX_ATTEMPTS", 5),
		FailedLoginIPMaxAttempts: getEnvInt("FAILED_LOGIN_IP_MAX_ATTEMPTS", 20),

		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		UploadRatePerMinute: getEnvInt("UPLOAD_RATE_PER_MINUTE", 10),
		UploadRatePerDay:    getEnvInt("UPLOAD_RATE_PER_DAY", 50),

		ClamAVAddress: getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout: time.Duration(getEnvInt("CLAMAV_TIMEOUT_SECONDS", 30)) * time.Second,

		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns: int32(getEnvInt("DB_MIN_CONNS", 5)),
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Tokens will be rejected.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting and token blacklist use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvList splits a comma separated variable, dropping blanks
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
