package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "COURSECRAFT"

// Config holds application configuration.
type Config struct {
	Service ServiceConfig
	Log     LogConfig
	TUI     TUIConfig
	Export  ExportConfig
}

// ServiceConfig points at the remote content-generation service.
type ServiceConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`
	File string `mapstructure:"file"`
}

type TUIConfig struct {
	// MarkdownStyle is a glamour standard style ("dark", "light", "notty", ...).
	// Empty means detect from the terminal background.
	MarkdownStyle string `mapstructure:"markdown_style"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from defaults, an optional config file, and the
// environment. Env var overrides use prefix COURSECRAFT_ (e.g.
// COURSECRAFT_SERVICE_BASE_URL). The config file is COURSECRAFT_CONFIG when set,
// otherwise ~/.config/coursecraft/config.{yaml,toml,json} if present.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("service.base_url", "http://127.0.0.1:5000")
	v.SetDefault("service.timeout", 120*time.Second)
	v.SetDefault("service.max_retries", 2)
	v.SetDefault("log.mode", "prod")
	v.SetDefault("log.file", "")
	v.SetDefault("tui.markdown_style", "")
	v.SetDefault("export.dir", ".")

	if cfgPath := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG")); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "coursecraft"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Service.BaseURL = strings.TrimRight(strings.TrimSpace(c.Service.BaseURL), "/")
	if c.Service.MaxRetries < 0 {
		c.Service.MaxRetries = 0
	}
	return c, nil
}
