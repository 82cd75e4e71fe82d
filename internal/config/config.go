// Package config loads host-side configuration for the function
// container.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"vortex-oracle/internal/eligibility"
	"vortex-oracle/internal/scoring"
	"vortex-oracle/internal/twitter"
)

// Config holds all application configuration.
type Config struct {
	Twitter struct {
		BaseURL     string `yaml:"base_url"`
		BearerToken string `yaml:"bearer_token"`
	} `yaml:"twitter"`
	Policy struct {
		MinAgeSeconds   int64  `yaml:"min_age_seconds"`
		RequiredTag     string `yaml:"required_tag"`
		RequiredMention string `yaml:"required_mention"`
	} `yaml:"policy"`
	Weights struct {
		Like    uint64 `yaml:"like"`
		Reply   uint64 `yaml:"reply"`
		Quote   uint64 `yaml:"quote"`
		Retweet uint64 `yaml:"retweet"`
	} `yaml:"weights"`
	Storage struct {
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"storage"`
	Solana struct {
		WSEndpoint string `yaml:"ws_endpoint"`
		Commitment string `yaml:"commitment"`
	} `yaml:"solana"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("APP_BEARER_TOKEN"); v != "" {
		cfg.Twitter.BearerToken = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("SOLANA_WS_ENDPOINT"); v != "" {
		cfg.Solana.WSEndpoint = v
	}

	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Twitter.BaseURL = twitter.DefaultBaseURL
	cfg.Policy.MinAgeSeconds = int64(eligibility.DefaultMinAge / time.Second)
	cfg.Policy.RequiredTag = eligibility.DefaultRequiredTag
	cfg.Policy.RequiredMention = eligibility.DefaultRequiredMention
	weights := scoring.DefaultWeights()
	cfg.Weights.Like = weights.Like
	cfg.Weights.Reply = weights.Reply
	cfg.Weights.Quote = weights.Quote
	cfg.Weights.Retweet = weights.Retweet
	cfg.Solana.Commitment = "confirmed"
	cfg.MetricsAddr = ":9090"
	return cfg
}

// MinAge returns the policy minimum age as a duration.
func (c *Config) MinAge() time.Duration {
	return time.Duration(c.Policy.MinAgeSeconds) * time.Second
}

// ScoringWeights returns the configured point multipliers.
func (c *Config) ScoringWeights() scoring.Weights {
	return scoring.Weights{
		Like:    c.Weights.Like,
		Reply:   c.Weights.Reply,
		Quote:   c.Weights.Quote,
		Retweet: c.Weights.Retweet,
	}
}
