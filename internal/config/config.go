// Package config loads service settings from defaults, an optional TOML file
// and TIERBOARD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Drafts   DraftsConfig   `mapstructure:"drafts"`
	Images   ImagesConfig   `mapstructure:"images"`
	Log      LogConfig      `mapstructure:"log"`
	Input    InputConfig    `mapstructure:"input"`
	Editor   EditorConfig   `mapstructure:"editor"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port      string `mapstructure:"port"`
	StaticDir string `mapstructure:"static_dir"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// DraftsConfig holds the local draft cache location.
type DraftsConfig struct {
	Path string `mapstructure:"path"`
}

// ImagesConfig holds the uploaded image store settings.
type ImagesConfig struct {
	Path    string `mapstructure:"path"`
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// InputConfig holds drag activation constraints.
type InputConfig struct {
	PointerDistance float64       `mapstructure:"pointer_distance"`
	TouchDelay      time.Duration `mapstructure:"touch_delay"`
	TouchTolerance  float64       `mapstructure:"touch_tolerance"`
	KeyboardStep    float64       `mapstructure:"keyboard_step"`
}

// EditorConfig holds defaults for new editing sessions.
type EditorConfig struct {
	Template     string `mapstructure:"template"`
	TemplatesDir string `mapstructure:"templates_dir"`
}

// Defaults registers the default value of every key on v.
func Defaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.static_dir", "./static")
	v.SetDefault("database.path", "./data/tierboard.db")
	v.SetDefault("drafts.path", "./data/drafts")
	v.SetDefault("images.path", "./data/images")
	v.SetDefault("images.base_url", "/images")
	v.SetDefault("log.level", "info")
	v.SetDefault("input.pointer_distance", 5.0)
	v.SetDefault("input.touch_delay", 100*time.Millisecond)
	v.SetDefault("input.touch_tolerance", 5.0)
	v.SetDefault("input.keyboard_step", 25.0)
	v.SetDefault("editor.template", "default")
	v.SetDefault("editor.templates_dir", "./templates")
}

// Load reads configuration from file and env. Env var overrides use prefix
// TIERBOARD_; the file is TIERBOARD_CONFIG or ./tierboard.toml when present.
func Load() (Config, error) {
	return LoadFile(os.Getenv("TIERBOARD_CONFIG"))
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the working directory for tierboard.toml.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	Defaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("tierboard")
	}

	v.SetEnvPrefix("TIERBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
