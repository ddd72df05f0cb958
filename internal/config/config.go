package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config selects the active dictionary service and carries the typed
// per-service settings.
type Config struct {
	Active        string         `mapstructure:"active" validate:"required,oneof=yandex lexicala"`
	AutoSwap      bool           `mapstructure:"autoswap"`
	CacheCapacity int            `mapstructure:"cache_capacity" validate:"gte=1"`
	Yandex        YandexConfig   `mapstructure:"yandex"`
	Lexicala      LexicalaConfig `mapstructure:"lexicala"`
}

type YandexConfig struct {
	Token  string `mapstructure:"token"`
	Mirror bool   `mapstructure:"mirror"`
	From   string `mapstructure:"from" validate:"required"`
	Into   string `mapstructure:"into" validate:"required"`
}

type LexicalaConfig struct {
	Key           string `mapstructure:"key"`
	Section       string `mapstructure:"section" validate:"oneof=global password random"`
	Morph         bool   `mapstructure:"morph"`
	Analyzed      bool   `mapstructure:"analyzed"`
	RetryAttempts uint   `mapstructure:"retry_attempts"`
	From          string `mapstructure:"from" validate:"required"`
	Into          string `mapstructure:"into" validate:"required"`
}

// Languages returns the configured language pair of the active service.
func (cfg *Config) Languages() (source, target string) {
	if cfg.Active == "lexicala" {
		return cfg.Lexicala.From, cfg.Lexicala.Into
	}
	return cfg.Yandex.From, cfg.Yandex.Into
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/quickdict")
	}

	v.SetDefault("active", "yandex")
	v.SetDefault("autoswap", false)
	v.SetDefault("cache_capacity", 100)
	v.SetDefault("yandex.mirror", false)
	v.SetDefault("yandex.from", "en")
	v.SetDefault("yandex.into", "ru")
	v.SetDefault("lexicala.section", "global")
	v.SetDefault("lexicala.retry_attempts", 2)
	v.SetDefault("lexicala.from", "en")
	v.SetDefault("lexicala.into", "fr")

	// Bind access tokens to environment variables only (not from config file)
	if err := v.BindEnv("yandex.token", "YANDEX_DICT_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind YANDEX_DICT_TOKEN environment variable: %w", err)
	}
	if err := v.BindEnv("lexicala.key", "RAPIDAPI_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind RAPIDAPI_KEY environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("newValidator > %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, translateErrors(err, trans)
	}

	return &cfg, nil
}
