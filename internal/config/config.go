package config

import (
	"errors"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort int `yaml:"apiPort"`
	Auth    struct {
		SecretKey     string `yaml:"secretKey"`
		TokenTTLHours int    `yaml:"tokenTTLHours"`
	} `yaml:"auth"`
	Database struct {
		Type       string `yaml:"type"`
		Path       string `yaml:"path"`
		Host       string `yaml:"host"`
		Port       string `yaml:"port"`
		Name       string `yaml:"name"`
		User       string `yaml:"user"`
		Password   string `yaml:"password"`
		SSLMode    string `yaml:"sslMode"`
		MaxRetries int    `yaml:"maxRetries"`
		RetryDelay int    `yaml:"retryDelay"`
	} `yaml:"database"`
}

// LoadConfig loads the configuration from file and environment variables.
// The returned struct is loaded once at startup and never mutated afterwards.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 3001
		log.Println("APIPort not specified, using default 3001")
	}

	if cfg.Auth.SecretKey == "" {
		// Tokens signed with a guessable key are forgeable, so this is fatal.
		return nil, errors.New("auth.secretKey must be set")
	}
	if cfg.Auth.TokenTTLHours == 0 {
		cfg.Auth.TokenTTLHours = 24
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/jotdown.db"
		log.Println("Database path not specified, using default data/jotdown.db")
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxRetries == 0 {
		cfg.Database.MaxRetries = 5
	}
	if cfg.Database.RetryDelay == 0 {
		cfg.Database.RetryDelay = 5
	}

	return &cfg, nil
}
