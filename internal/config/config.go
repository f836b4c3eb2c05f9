package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Monitor  MonitorConfig
	Log      LogConfig
	Alert    AlertConfig
	Database DatabaseConfig
}

// MonitorConfig defines the stream-monitoring settings.
type MonitorConfig struct {
	Symbols     []string   `mapstructure:"symbols"`
	StreamURL   string     `mapstructure:"stream_url"`
	MinNotional float64    `mapstructure:"min_notional"`
	Tiers       TierConfig `mapstructure:"tiers"`
	BackoffMS   int        `mapstructure:"backoff_ms"`
}

// TierConfig holds the inclusive lower bounds of the notional severity tiers.
type TierConfig struct {
	Notable float64 `mapstructure:"notable"`
	Large   float64 `mapstructure:"large"`
	Whale   float64 `mapstructure:"whale"`
}

// LogConfig defines the trade log destination.
type LogConfig struct {
	Path string `mapstructure:"path"`
}

// AlertConfig defines alert rendering and notification settings.
type AlertConfig struct {
	NotifyNotional float64 `mapstructure:"notify_notional"`
	WebhookURL     string  `mapstructure:"webhook_url"`
}

// DatabaseConfig defines the optional Postgres mirror settings.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; every key has a default.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("monitor.symbols", []string{"btcusdt", "ethusdt", "solusdt", "bnbusdt", "dogeusdt", "wifusdt"})
	v.SetDefault("monitor.stream_url", "wss://fstream.binance.com/ws/")
	v.SetDefault("monitor.min_notional", 15000)
	v.SetDefault("monitor.tiers.notable", 50000)
	v.SetDefault("monitor.tiers.large", 100000)
	v.SetDefault("monitor.tiers.whale", 500000)
	v.SetDefault("monitor.backoff_ms", 5000)
	v.SetDefault("log.path", "binance_trades.csv")
	v.SetDefault("alert.notify_notional", 1000000)
	v.SetDefault("alert.webhook_url", "")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	if len(config.Monitor.Symbols) == 0 {
		err = errors.New("config: monitor.symbols must not be empty")
	}
	return
}
