package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Corpus.Source != "dir" || cfg.Corpus.Dir != "corpus" {
		t.Errorf("Corpus = %+v, want dir source", cfg.Corpus)
	}
	if cfg.Redis.CacheTTL != 5*time.Minute {
		t.Errorf("Redis.CacheTTL = %v, want 5m", cfg.Redis.CacheTTL)
	}
	if cfg.Kafka.Enabled {
		t.Error("Kafka.Enabled = true, want false by default")
	}
	if cfg.Search.MaxResults != 100 || cfg.Search.DefaultLimit != 10 {
		t.Errorf("Search = %+v", cfg.Search)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: 9999
corpus:
  source: postgres
search:
  defaultLimit: 25
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Corpus.Source != "postgres" {
		t.Errorf("Corpus.Source = %q, want postgres", cfg.Corpus.Source)
	}
	if cfg.Search.DefaultLimit != 25 {
		t.Errorf("Search.DefaultLimit = %d, want 25", cfg.Search.DefaultLimit)
	}
	// Unset fields keep their defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CSP_SERVER_PORT", "7070")
	t.Setenv("CSP_CORPUS_SOURCE", "postgres")
	t.Setenv("CSP_KAFKA_ENABLED", "true")
	t.Setenv("CSP_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("CSP_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Corpus.Source != "postgres" {
		t.Errorf("Corpus.Source = %q, want postgres", cfg.Corpus.Source)
	}
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("Kafka = %+v, want enabled with 2 brokers", cfg.Kafka)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}
