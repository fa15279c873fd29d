package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	Judge0URL         string
	Judge0APIKey      string
	Judge0APIHost     string
	Judge0LanguageID  int
	Judge0HTTPTimeout time.Duration

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	JWTSecret string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	MigrationsPath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers   []string
	ExecutionTopic string
}

func ConfigInit() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8000"),

		Judge0URL:         getEnv("JUDGE0_API_URL", "https://judge0-ce.p.rapidapi.com"),
		Judge0APIKey:      getEnv("JUDGE0_API_KEY", ""),
		Judge0APIHost:     getEnv("JUDGE0_API_HOST", "judge0-ce.p.rapidapi.com"),
		Judge0LanguageID:  getInt("JUDGE0_LANGUAGE_ID", 54),
		Judge0HTTPTimeout: time.Duration(getInt("JUDGE0_HTTP_TIMEOUT_SECONDS", 10)) * time.Second,

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "simulator"),

		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations/migrate"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		KafkaBrokers:   splitList(getEnv("KAFKA_BROKERS", "")),
		ExecutionTopic: getEnv("EXECUTION_TOPIC", "executions"),
	}
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
	)
}

// DatabaseURL is the URL form of DSN used by the migration runner.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// ProgressEnabled reports whether a database is configured for learner progress.
func (c *Config) ProgressEnabled() bool {
	return c.DBHost != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
