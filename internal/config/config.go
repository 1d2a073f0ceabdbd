// Package config loads satr settings from flags, SATR_* environment
// variables and an optional satr.yaml file.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "SATR"

// Keys shared by viper, flags and the config file
const (
	KeyRoot           = "root"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyCurrencySymbol = "currency.symbol"
	KeyCurrencyPlaces = "currency.places"
	KeyServerAddress  = "server.address"
)

// Config groups the application settings
type Config struct {
	Root     string
	Log      LogConfig
	Currency CurrencyConfig
	Server   ServerConfig
}

// LogConfig controls the zerolog output
type LogConfig struct {
	Level  string
	Format string
}

// CurrencyConfig controls how amounts are printed
type CurrencyConfig struct {
	Symbol string
	Places int32
}

// ServerConfig controls the HTTP surface
type ServerConfig struct {
	Address string
}

// New returns a viper instance with defaults, env binding and, when
// present, the config file. file overrides the search path.
func New(file string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
		return v, nil
	}

	v.SetConfigName("satr")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "satr"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return v, nil
}

// Load reads the settings out of v
func Load(v *viper.Viper) *Config {
	return &Config{
		Root: v.GetString(KeyRoot),
		Log: LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
		Currency: CurrencyConfig{
			Symbol: v.GetString(KeyCurrencySymbol),
			Places: v.GetInt32(KeyCurrencyPlaces),
		},
		Server: ServerConfig{
			Address: v.GetString(KeyServerAddress),
		},
	}
}

// RootOrDefault returns the configured root, then the working directory
func (c *Config) RootOrDefault() string {
	if c.Root != "" {
		return c.Root
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRoot, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyCurrencySymbol, "$")
	v.SetDefault(KeyCurrencyPlaces, 2)
	v.SetDefault(KeyServerAddress, ":8080")
}
