package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDatabaseURL = "sqlite://glowhub.db"
	DefaultPort        = "8080"
	DefaultExchange    = "glowhub.orders"
)

// Settings is everything the service reads from its environment.
type Settings struct {
	DatabaseURL      string `yaml:"database_url"`
	Verbose          bool   `yaml:"verbose"`
	Port             string `yaml:"port"`
	RabbitMQURL      string `yaml:"rabbitmq_url"`
	RabbitMQExchange string `yaml:"rabbitmq_exchange"`
}

// Load reads .env (if present), then the YAML file named by GLOWHUB_CONFIG
// (if set), then the process environment. Later sources win.
func Load() (Settings, error) {
	_ = godotenv.Load()

	var s Settings
	if path := os.Getenv("GLOWHUB_CONFIG"); path != "" {
		fromFile, err := LoadFile(path)
		if err != nil {
			return Settings{}, err
		}
		s = fromFile
	}
	applyEnv(&s, os.LookupEnv)
	applyDefaults(&s)
	return s, nil
}

// LoadFile parses a YAML settings file without applying defaults.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return s, nil
}

func applyEnv(s *Settings, lookup func(string) (string, bool)) {
	if v, ok := lookup("DATABASE_URL"); ok && strings.TrimSpace(v) != "" {
		s.DatabaseURL = strings.TrimSpace(v)
	}
	for _, key := range []string{"SQL_ECHO", "VERBOSE"} {
		if v, ok := lookup(key); ok {
			s.Verbose = s.Verbose || truthy(v)
		}
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		s.Port = v
	}
	if v, ok := lookup("RABBITMQ_URL"); ok {
		s.RabbitMQURL = strings.TrimSpace(v)
	}
	if v, ok := lookup("RABBITMQ_EXCHANGE"); ok && v != "" {
		s.RabbitMQExchange = v
	}
}

func applyDefaults(s *Settings) {
	if s.DatabaseURL == "" {
		s.DatabaseURL = DefaultDatabaseURL
	}
	if s.Port == "" {
		s.Port = DefaultPort
	}
	if s.RabbitMQExchange == "" {
		s.RabbitMQExchange = DefaultExchange
	}
}

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
