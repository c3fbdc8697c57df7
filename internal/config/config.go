// Package config provides the TOML configuration file and XDG path helpers.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Fields are pointers
// so an absent key can be told apart from an explicit zero; CLI flags
// override anything set here.
type FileConfig struct {
	Reading ReadingConfig `toml:"reading"`
	Session SessionConfig `toml:"session"`
}

// ReadingConfig maps playback settings.
type ReadingConfig struct {
	WPM                   *int     `toml:"wpm"`
	Frame                 *int     `toml:"frame"`
	PauseOnPunctuation    *bool    `toml:"pause-on-punctuation"`
	PunctuationMultiplier *float64 `toml:"punctuation-multiplier"`
	PauseAfterWords       *int     `toml:"pause-after-words"`
	PauseDuration         *float64 `toml:"pause-duration"`
	WordLengthMultiplier  *float64 `toml:"word-length-multiplier"`
}

// SessionConfig maps session persistence settings.
type SessionConfig struct {
	Autosave *bool `toml:"autosave"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
