package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultConfigName = ".floweditrc.toml"

type Config struct {
	SaveDirectory string `toml:"save_directory"`
	Confirmations bool   `toml:"confirmations"`
	IDScheme      string `toml:"id_scheme"`

	// Node sizes in terminal cells.
	RegularWidth    int `toml:"regular_width"`
	RegularHeight   int `toml:"regular_height"`
	ConditionWidth  int `toml:"condition_width"`
	ConditionHeight int `toml:"condition_height"`
}

func defaultConfig() *Config {
	return &Config{
		Confirmations:   true,
		IDScheme:        IDSchemeCounter,
		RegularWidth:    20,
		RegularHeight:   4,
		ConditionWidth:  22,
		ConditionHeight: 4,
	}
}

// loadConfig reads path, or ~/.floweditrc.toml when path is empty. A missing
// default file yields the defaults; a missing explicit file is an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	explicit := path != ""
	if !explicit {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return config, nil
		}
		path = filepath.Join(homeDir, defaultConfigName)
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if err := config.normalize(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) normalize() error {
	switch strings.ToLower(c.IDScheme) {
	case "", IDSchemeCounter:
		c.IDScheme = IDSchemeCounter
	case IDSchemeUUID:
		c.IDScheme = IDSchemeUUID
	default:
		return fmt.Errorf("unknown id_scheme %q", c.IDScheme)
	}

	if c.RegularWidth < minNodeWidth || c.ConditionWidth < minNodeWidth {
		return fmt.Errorf("node width must be at least %d cells", minNodeWidth)
	}
	if c.RegularHeight < minNodeHeight || c.ConditionHeight < minNodeHeight {
		return fmt.Errorf("node height must be at least %d cells", minNodeHeight)
	}

	if value := c.SaveDirectory; value != "" {
		if strings.HasPrefix(value, "~") {
			if homeDir, err := os.UserHomeDir(); err == nil {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
		}
		if !filepath.IsAbs(value) {
			if absPath, err := filepath.Abs(value); err == nil {
				value = absPath
			}
		}
		c.SaveDirectory = value
	}
	return nil
}

// Layout converts the configured cell sizes into model units.
func (c *Config) Layout() FixedLayout {
	return FixedLayout{
		RegularWidth:    float64(c.RegularWidth) * cellWidth,
		RegularHeight:   float64(c.RegularHeight) * cellHeight,
		ConditionWidth:  float64(c.ConditionWidth) * cellWidth,
		ConditionHeight: float64(c.ConditionHeight) * cellHeight,
	}
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
