package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/roach88/focusnav/internal/browser"
)

// EnvPrefix prefixes every environment override, e.g. FOCUSNAV_DATABASE_PATH.
const EnvPrefix = "FOCUSNAV"

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Profiles ProfilesConfig
	Browser  BrowserConfig
}

// DatabaseConfig holds capability store settings.
type DatabaseConfig struct {
	Path string
}

// ProfilesConfig holds environment profile settings.
type ProfilesConfig struct {
	// Dir is a directory of user CUE profiles merged over the built-in set.
	Dir string
	// Default names the profile used when a command gets neither
	// --profile nor --user-agent.
	Default string
}

// BrowserConfig holds settings for browser-backed probing.
type BrowserConfig struct {
	Engine   string
	Headless bool
}

// Options control where Load looks.
type Options struct {
	// ConfigFile overrides $FOCUSNAV_CONFIG and the default location.
	ConfigFile string
	// EnvFile is loaded into the process environment before reading
	// overrides; missing files are ignored. Empty means ".env".
	EnvFile string
}

// Load reads configuration from defaults, files and environment.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()

	home, _ := os.UserHomeDir()
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "focusnav", "capabilities.db"))
	v.SetDefault("profiles.dir", "")
	v.SetDefault("profiles.default", "")
	v.SetDefault("browser.engine", string(browser.Chromium))
	v.SetDefault("browser.headless", true)

	v.SetConfigType("yaml")

	cfgPath := opts.ConfigFile
	if cfgPath == "" {
		cfgPath = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "focusnav"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// the default location is optional, an explicit file is not
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := browser.ParseEngine(c.Browser.Engine); err != nil {
		return Config{}, fmt.Errorf("browser.engine: %w", err)
	}
	return c, nil
}
