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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Weights  WeightsConfig  `yaml:"weights" mapstructure:"weights"`
	Regress  RegressConfig  `yaml:"regress" mapstructure:"regress"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ClassifyConfig holds classification defaults.
type ClassifyConfig struct {
	Scheme  string `yaml:"scheme" mapstructure:"scheme"`
	K       int    `yaml:"k" mapstructure:"k"`
	Palette string `yaml:"palette" mapstructure:"palette"`
}

// WeightsConfig holds spatial-weights defaults.
type WeightsConfig struct {
	KNearest       int  `yaml:"k_nearest" mapstructure:"k_nearest"`
	RowStandardize bool `yaml:"row_standardize" mapstructure:"row_standardize"`
}

// RegressConfig holds regression defaults.
type RegressConfig struct {
	InstrumentLags int `yaml:"instrument_lags" mapstructure:"instrument_lags"`
}

// MapConfig configures the HTML map artifact.
type MapConfig struct {
	TileURL     string `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution string `yaml:"attribution" mapstructure:"attribution"`
}

// ServerConfig configures the artifact server.
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
	v.SetEnvPrefix("GEOSTAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "geostat.db")
	v.SetDefault("classify.scheme", "quantiles")
	v.SetDefault("classify.k", 5)
	v.SetDefault("classify.palette", "YlOrRd")
	v.SetDefault("weights.k_nearest", 4)
	v.SetDefault("weights.row_standardize", true)
	v.SetDefault("regress.instrument_lags", 2)
	v.SetDefault("map.tile_url", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")
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
