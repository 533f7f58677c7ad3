/*
Package config manages the TOML config for emojiserve.
*/
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bastiangx/emojiserve/internal/utils"
	"github.com/bastiangx/emojiserve/pkg/frecency"
	"github.com/charmbracelet/log"
)

// FileName is the config file name inside the config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	History  HistoryConfig  `toml:"history"`
	Frecency FrecencyConfig `toml:"frecency"`
	Corpus   CorpusConfig   `toml:"corpus"`
	Assets   AssetsConfig   `toml:"assets"`
	CLI      CliConfig      `toml:"cli"`
}

// HistoryConfig controls the interaction log.
type HistoryConfig struct {
	Path    string `toml:"path"`
	Enabled bool   `toml:"enabled"`
}

// FrecencyConfig holds ranking options.
type FrecencyConfig struct {
	HalfLifeDays float64 `toml:"half_life_days"`
}

// CorpusConfig points at an external emoji table. Empty uses the builtin one.
type CorpusConfig struct {
	Path string `toml:"path"`
}

// AssetsConfig points at a directory of per-code images.
type AssetsConfig struct {
	Dir string `toml:"dir"`
	Ext string `toml:"ext"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	Color bool `toml:"color"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			Path:    filepath.Join("~", ".emojiserve", "history.jsonl"),
			Enabled: true,
		},
		Frecency: FrecencyConfig{
			HalfLifeDays: frecency.DefaultHalfLife.Hours() / 24,
		},
		Assets: AssetsConfig{
			Ext: ".png",
		},
		CLI: CliConfig{
			Color: true,
		},
	}
}

// HalfLife returns the configured half-life, falling back to
// frecency.DefaultHalfLife.
func (c *Config) HalfLife() time.Duration {
	if c.Frecency.HalfLifeDays <= 0 {
		return frecency.DefaultHalfLife
	}
	return time.Duration(c.Frecency.HalfLifeDays * float64(24*time.Hour))
}

// HistoryPath resolves the history file location, expanding ~.
// It returns an error when history is disabled or no home dir is available.
func (c *Config) HistoryPath() (string, error) {
	if !c.History.Enabled || c.History.Path == "" {
		return "", errHistoryDisabled
	}
	return utils.ExpandHome(c.History.Path)
}

type configError string

func (e configError) Error() string { return string(e) }

const errHistoryDisabled = configError("history disabled")

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/emojiserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, resolver *utils.PathResolver) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	if resolver == nil {
		return DefaultConfig(), "", nil
	}
	defaultPath, err := resolver.GetConfigPath(FileName)
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every section that still decodes
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "history"); ok {
		extractHistoryConfig(section, &config.History)
	}
	if section, ok := utils.ExtractSection(tempConfig, "frecency"); ok {
		if val, ok := utils.ExtractFloat(section, "half_life_days"); ok {
			config.Frecency.HalfLifeDays = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Corpus.Path = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "assets"); ok {
		extractAssetsConfig(section, &config.Assets)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractBool(section, "color"); ok {
			config.CLI.Color = val
		}
	}
	return config, nil
}

func extractHistoryConfig(data map[string]any, history *HistoryConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		history.Path = val
	}
	if val, ok := utils.ExtractBool(data, "enabled"); ok {
		history.Enabled = val
	}
}

func extractAssetsConfig(data map[string]any, assets *AssetsConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		assets.Dir = val
	}
	if val, ok := utils.ExtractString(data, "ext"); ok {
		assets.Ext = val
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	return utils.GetAbsolutePath(configPath)
}
