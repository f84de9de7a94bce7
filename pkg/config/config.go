// Package config loads the console configuration. Sources are applied in
// order: defaults, an optional YAML file, then SUITCASE_* environment
// variables. Command-line flags are applied by the binaries on top.
package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cbodonnell/suitcase/pkg/game"
	"github.com/cbodonnell/suitcase/pkg/log"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "SUITCASE_"

// Frontends.
const (
	UIDesktop  = "desktop"
	UITerminal = "terminal"
	UIHeadless = "headless"
	UIWeb      = "web"
)

type AudioConfig struct {
	Enabled    bool `yaml:"enabled" env:"ENABLED"`
	SampleRate int  `yaml:"sample_rate" env:"SAMPLE_RATE"`
	// LegacyFile is the device's config.csv; its Audio entry overrides Enabled.
	LegacyFile string `yaml:"legacy_file" env:"LEGACY_FILE"`
}

type Config struct {
	Rules    game.Rules    `yaml:"rules" envPrefix:"RULES_"`
	Features game.Features `yaml:"features"`
	Audio    AudioConfig   `yaml:"audio" envPrefix:"AUDIO_"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
	// LogGPIO writes every presentation command to the log.
	LogGPIO bool   `yaml:"log_gpio" env:"LOG_GPIO"`
	UI      string `yaml:"ui" env:"UI"`

	// PreviewAddr serves the web preview when set.
	PreviewAddr string `yaml:"preview_addr" env:"PREVIEW_ADDR"`
	// KeypadAddr accepts keypad bridges when set.
	KeypadAddr string `yaml:"keypad_addr" env:"KEYPAD_ADDR"`
	// DatabaseURL enables the round journal: sqlite://path or postgres://...
	DatabaseURL string `yaml:"database_url" env:"DATABASE_URL"`
}

func Default() Config {
	return Config{
		Rules:    game.DefaultRules(),
		LogLevel: log.LogLevelInfo.String(),
		UI:       UIDesktop,
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: 44100,
		},
	}
}

// Load reads path (if not empty) over the defaults, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %v", err)
	}
	if cfg.Audio.LegacyFile != "" {
		cfg.Audio.Enabled = ReadAudioSetting(cfg.Audio.LegacyFile, cfg.Audio.Enabled)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}
	return nil
}

func (c Config) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("invalid rules: %v", err)
	}
	if _, err := log.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.UI {
	case UIDesktop, UITerminal, UIHeadless, UIWeb:
	default:
		return fmt.Errorf("unknown ui: %q", c.UI)
	}
	if c.UI == UIWeb && c.PreviewAddr == "" {
		return errors.New("the web ui needs a preview address")
	}
	return nil
}

// ReadAudioSetting returns the Audio entry of a legacy config.csv
// ("Audio:True"), or def when the file or entry is missing or unreadable.
func ReadAudioSetting(path string, def bool) bool {
	f, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Failed to open %s: %v", path, err)
		}
		return def
	}
	defer f.Close()
	return parseAudioSetting(f, def)
}

func parseAudioSetting(r io.Reader, def bool) bool {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return def
		}
		if err != nil {
			log.Warn("Failed to read legacy config: %v", err)
			return def
		}
		for _, column := range row {
			key, value, ok := strings.Cut(column, ":")
			if !ok || strings.ToLower(strings.TrimSpace(key)) != "audio" {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(value)) {
			case "false", "0", "no", "off":
				return false
			}
			return true
		}
	}
}
