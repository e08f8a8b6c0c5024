package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Config holds the file paths and tuning knobs for the poetry generator.
type Config struct {
	CorpusPath    string `json:"corpus_path"`
	CachePath     string `json:"cache_path"`
	HistoryDBPath string `json:"history_db_path"`
	LogLevel      string `json:"log_level"`
	MaxAttempts   int    `json:"max_repetition_attempts"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		CorpusPath:    "./data/combined_cleaned.txt",
		CachePath:     "./hashtable_cache.bin",
		HistoryDBPath: "./data/poetry_history.db",
		LogLevel:      "info",
		MaxAttempts:   50,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Log a warning instead of failing, the run can still proceed with defaults.
				fmt.Printf("warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
