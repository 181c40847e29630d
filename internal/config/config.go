package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Questions struct {
		// Path to a questions.json document; used when postgres is not configured.
		Path string `yaml:"path"`
		// Set names the question_sets row to load from postgres.
		Set string `yaml:"set"`
		TTL string `yaml:"ttl"`
	} `yaml:"questions"`
	Game struct {
		OffendedCap    int     `yaml:"offendedCap"`
		Tolerance      float64 `yaml:"tolerance"`
		GoodwillCredit float64 `yaml:"goodwillCredit"`
		TimeoutWeight  float64 `yaml:"timeoutWeight"`
	} `yaml:"game"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty
// or malformed.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
