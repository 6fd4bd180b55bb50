package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avasquez/lowrank/internal/criteria"
)

const (
	DefaultDataDir = ".lowrank"
	DefaultLoss    = "sse"
)

type Config struct {
	DataDir    string `yaml:"data_dir"`
	Loss       string `yaml:"loss"`
	KnownNoise bool   `yaml:"known_noise"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Loss:    DefaultLoss,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LossFunc resolves the configured loss name to a comparator.
func (c *Config) LossFunc() (criteria.Loss, error) {
	return LossByName(c.Loss)
}

// LossByName maps a loss name to a comparator: "sse" for sum of squared
// differences, "sad" for sum of absolute differences.
func LossByName(name string) (criteria.Loss, error) {
	switch name {
	case "", "sse":
		return criteria.SumSquares, nil
	case "sad":
		return criteria.SumAbs, nil
	default:
		return nil, fmt.Errorf("config: unknown loss %q (want sse or sad)", name)
	}
}
