package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type AWSConfig struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Region          string `yaml:"region"`
}

type DatabaseConfig struct {
	// DSN enables the Postgres import journal when set.
	DSN string `yaml:"dsn"`
}

type ImportConfig struct {
	MaxBatchSize int    `yaml:"max_batch_size"`
	Lenient      bool   `yaml:"lenient"`
	Comment      string `yaml:"comment"`
}

type Config struct {
	AWS      AWSConfig      `yaml:"aws"`
	Database DatabaseConfig `yaml:"database"`
	Import   ImportConfig   `yaml:"import"`
}

// Default returns the configuration used when no config file is present:
// SDK default credentials, no journal, Route53's documented batch limit.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Import.MaxBatchSize < 0 {
		return nil, fmt.Errorf("import.max_batch_size must be positive")
	}
	if cfg.AWS.AccessKeyID != "" && cfg.AWS.SecretAccessKey == "" {
		return nil, fmt.Errorf("aws.secret_access_key is required when aws.access_key_id is set")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.AWS.Region == "" {
		cfg.AWS.Region = "us-east-1"
	}
	if cfg.Import.MaxBatchSize == 0 {
		cfg.Import.MaxBatchSize = 1000
	}
	if cfg.Import.Comment == "" {
		cfg.Import.Comment = "Managed by zone53"
	}
}
