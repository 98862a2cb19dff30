package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"uml-studio/internal/catalog"
	"uml-studio/internal/generate"
)

// Environment variable prefix, e.g. UMLSTUDIO_SERVER.
const envPrefix = "UMLSTUDIO"

const DefaultServer = "https://www.plantuml.com/plantuml"

// Config is the effective runtime configuration.
type Config struct {
	// Server is the PlantUML server base URL. Empty means offline preview.
	Server        string        `mapstructure:"server" yaml:"server"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	GenerateDelay time.Duration `mapstructure:"generateDelay" yaml:"generateDelay"`
	DefaultType   string        `mapstructure:"defaultType" yaml:"defaultType"`
	DarkMode      bool          `mapstructure:"darkMode" yaml:"darkMode"`
	ExportDir     string        `mapstructure:"exportDir" yaml:"exportDir"`
	CacheSize     int           `mapstructure:"cacheSize" yaml:"cacheSize"`
	LogFile       string        `mapstructure:"logFile" yaml:"logFile"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server:        DefaultServer,
		Timeout:       20 * time.Second,
		GenerateDelay: generate.DefaultDelay,
		DefaultType:   string(catalog.Class),
		ExportDir:     ".",
		CacheSize:     64,
	}
}

// DiagramType parses DefaultType.
func (c Config) DiagramType() (catalog.DiagramType, error) {
	return catalog.Parse(c.DefaultType)
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if _, err := c.DiagramType(); err != nil {
		return fmt.Errorf("defaultType: %w", err)
	}
	if c.GenerateDelay < 0 {
		return fmt.Errorf("generateDelay must not be negative (got %s)", c.GenerateDelay)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive (got %s)", c.Timeout)
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/uml-studio/config.yaml (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(dir, "uml-studio", "config.yaml"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault("server", d.Server)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("generateDelay", d.GenerateDelay)
	v.SetDefault("defaultType", d.DefaultType)
	v.SetDefault("darkMode", d.DarkMode)
	v.SetDefault("exportDir", d.ExportDir)
	v.SetDefault("cacheSize", d.CacheSize)
	v.SetDefault("logFile", d.LogFile)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// camelCase keys do not survive AutomaticEnv's upper-casing; bind explicitly.
	_ = v.BindEnv("generateDelay", envPrefix+"_GENERATE_DELAY")
	_ = v.BindEnv("defaultType", envPrefix+"_DEFAULT_TYPE")
	_ = v.BindEnv("darkMode", envPrefix+"_DARK_MODE")
	_ = v.BindEnv("exportDir", envPrefix+"_EXPORT_DIR")
	_ = v.BindEnv("cacheSize", envPrefix+"_CACHE_SIZE")
	_ = v.BindEnv("logFile", envPrefix+"_LOG_FILE")
	return v
}

// Load reads .env (if present), then path (or DefaultPath when empty), then
// the environment. A missing file is not an error. Precedence: env > file > defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			if explicit {
				return nil, fmt.Errorf("read config %s: %w", path, fs.ErrNotExist)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes c to path as YAML, creating parent directories.
func Save(path string, c *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	v := viper.New()
	v.Set("server", c.Server)
	v.Set("timeout", c.Timeout.String())
	v.Set("generateDelay", c.GenerateDelay.String())
	v.Set("defaultType", c.DefaultType)
	v.Set("darkMode", c.DarkMode)
	v.Set("exportDir", c.ExportDir)
	v.Set("cacheSize", c.CacheSize)
	v.Set("logFile", c.LogFile)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
