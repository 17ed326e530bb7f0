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
	Port        string
	Environment string
	FrontendURL string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTAccessSecret  string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config (email dispatch)
	KafkaBrokers    []string
	KafkaEmailTopic string
	KafkaGroupID    string

	// ✅ SMTP Config
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFromName  string
	SMTPFromEmail string

	SendGridAPIKey string

	// ✅ FCM Config
	FCMCredentialsPath string
	FCMProjectID       string

	// ✅ Ollama (estimation + tree classification)
	OllamaURL     string
	OllamaModel   string
	OllamaTimeout time.Duration

	TreeRewardPoints  int
	TopRewardDiscount float64
	TopRewardCron     string

	UploadDir          string
	MaxFileSize        int64
	UploadMaxDimension int

	RateLimitWindow time.Duration
	RateLimitMax    int64

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string
}

// Load reads environment variables once and returns an immutable Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "5000"),
		Environment: getEnv("APP_ENV", "development"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "housefit"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),
		JWTAccessTTL:     getDuration("JWT_ACCESS_TTL", 15*time.Minute),
		JWTRefreshTTL:    getDuration("JWT_REFRESH_TTL", 7*24*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getInt("REDIS_DB", 0),

		KafkaBrokers:    splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaEmailTopic: getEnv("KAFKA_EMAIL_TOPIC", "housefit.emails"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "housefit-mailer"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFromName:  getEnv("SMTP_FROM_NAME", "HouseFit"),
		SMTPFromEmail: os.Getenv("SMTP_FROM_EMAIL"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),
		FCMProjectID:       os.Getenv("FCM_PROJECT_ID"),

		OllamaURL:     getEnv("OLLAMA_URL", "http://127.0.0.1:11435"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llama2"),
		OllamaTimeout: getDuration("OLLAMA_TIMEOUT", 120*time.Second),

		TreeRewardPoints:  getInt("TREE_REWARD_POINTS", 10),
		TopRewardDiscount: getFloat("TOP_REWARD_DISCOUNT", 1000),
		TopRewardCron:     os.Getenv("TOP_REWARD_CRON"),

		UploadDir:          getEnv("UPLOAD_DIR", "./uploads"),
		MaxFileSize:        int64(getInt("MAX_FILE_SIZE", 5242880)),
		UploadMaxDimension: getInt("UPLOAD_MAX_DIMENSION", 1600),

		RateLimitWindow: getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		RateLimitMax:    int64(getInt("RATE_LIMIT_MAX", 100)),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

// getDuration accepts Go durations ("15m") or plain seconds ("900").
func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
