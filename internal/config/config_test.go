package config

import (
	"testing"
	"time"
)

func TestConfigInit_Defaults(t *testing.T) {
	t.Setenv("JUDGE0_API_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("DB_HOST", "")

	cfg := ConfigInit()

	if cfg.HTTPPort != "8000" {
		t.Fatalf("unexpected port: %s", cfg.HTTPPort)
	}
	if cfg.Judge0LanguageID != 54 {
		t.Fatalf("unexpected language id: %d", cfg.Judge0LanguageID)
	}
	if cfg.Judge0HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Judge0HTTPTimeout)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
	if cfg.ProgressEnabled() {
		t.Fatalf("expected progress to be disabled without DB_HOST")
	}
}

func TestConfigInit_Overrides(t *testing.T) {
	t.Setenv("JUDGE0_LANGUAGE_ID", "76")
	t.Setenv("JUDGE0_HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DB_HOST", "db")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := ConfigInit()

	if cfg.Judge0LanguageID != 76 {
		t.Fatalf("unexpected language id: %d", cfg.Judge0LanguageID)
	}
	if cfg.Judge0HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Judge0HTTPTimeout)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
	if cfg.RedisDB != 0 {
		t.Fatalf("expected fallback redis db, got %d", cfg.RedisDB)
	}
	if !cfg.ProgressEnabled() {
		t.Fatalf("expected progress to be enabled")
	}
	if cfg.DSN() != "host=db port=5432 user=postgres password=postgres dbname=simulator sslmode=disable" {
		t.Fatalf("unexpected dsn: %s", cfg.DSN())
	}
	if cfg.DatabaseURL() != "postgres://postgres:postgres@db:5432/simulator?sslmode=disable" {
		t.Fatalf("unexpected database url: %s", cfg.DatabaseURL())
	}
}
