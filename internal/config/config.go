package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Provider ProviderConfig `mapstructure:"provider"`
}

type AppConfig struct {
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI         string `mapstructure:"uri"`
	Name        string `mapstructure:"name"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
}

// JWTConfig defines token signing configuration. Expiration values are
// duration strings in the config file ("30m", "168h").
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	Expiration        time.Duration `mapstructure:"expiration"`
	RefreshExpiration time.Duration `mapstructure:"refresh_expiration"`
}

// TelegramConfig holds the bot token used to verify WebApp init data.
// VerifySignature exists because the original deployment trusted the payload
// at login; keep it enabled outside of local development.
type TelegramConfig struct {
	BotToken        string `mapstructure:"bot_token"`
	VerifySignature bool   `mapstructure:"verify_signature"`
}

type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ProxyTimeout time.Duration `mapstructure:"proxy_timeout"`
}

type ProviderConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	ServiceKey string        `mapstructure:"service_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Environment variable handling: server.address -> SERVER_ADDRESS etc.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("app.environment", "development")
	viper.SetDefault("app.version", "0.1.0")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "superstrong")
	viper.SetDefault("database.max_pool_size", 100)
	viper.SetDefault("jwt.expiration", "30m")
	viper.SetDefault("jwt.refresh_expiration", "168h")
	viper.SetDefault("telegram.verify_signature", true)
	viper.SetDefault("catalog.timeout", "10s")
	viper.SetDefault("catalog.proxy_timeout", "15s")
	viper.SetDefault("provider.timeout", "30s")

	err = viper.ReadInConfig()
	// Config file is optional; env vars and defaults may be enough.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
