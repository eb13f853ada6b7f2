// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Dataset  DatasetConfig  `yaml:"dataset" mapstructure:"dataset"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Session  SessionConfig  `yaml:"session" mapstructure:"session"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig selects and configures the record source backend.
type SourceConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // csv | sqlite | postgres
	CSVPath     string `yaml:"csv_path" mapstructure:"csv_path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BoundaryConfig configures the division boundary dataset.
type BoundaryConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	NameProperty string `yaml:"name_property" mapstructure:"name_property"`
}

// DatasetConfig configures the observed year range and the remote export.
type DatasetConfig struct {
	URL       string `yaml:"url" mapstructure:"url"`
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	YearFrom  int    `yaml:"year_from" mapstructure:"year_from"`
	YearTo    int    `yaml:"year_to" mapstructure:"year_to"`
}

// Years expands the configured range into the observed year list.
func (d DatasetConfig) Years() []int {
	if d.YearTo < d.YearFrom {
		return nil
	}
	years := make([]int, 0, d.YearTo-d.YearFrom+1)
	for y := d.YearFrom; y <= d.YearTo; y++ {
		years = append(years, y)
	}
	return years
}

// ClassifyConfig configures the violent-crime classifier.
type ClassifyConfig struct {
	KeywordsPath string `yaml:"keywords_path" mapstructure:"keywords_path"` // optional YAML override
}

// SessionConfig configures cross-filter behavior.
type SessionConfig struct {
	// YearChangePolicy: "persist" keeps a division selected across a year
	// change even when it has no records for the new year; "reset" falls
	// back to citywide.
	YearChangePolicy string `yaml:"year_change_policy" mapstructure:"year_change_policy"`
}

// ServerConfig configures the interactive view server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CRIMEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.driver", "csv")
	v.SetDefault("source.csv_path", "Crime_Data_from_2020_to_Present.csv")
	v.SetDefault("boundary.path", "LAPD_Divisions.geojson")
	v.SetDefault("boundary.name_property", "APREC")
	v.SetDefault("dataset.year_from", 2020)
	v.SetDefault("dataset.year_to", 2024)
	v.SetDefault("dataset.user_agent", "crimemap-cli")
	v.SetDefault("session.year_change_policy", "persist")
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
