package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`
	ChartFormat string `mapstructure:"chart_format" yaml:"chart_format"`
	Delimiter   string `mapstructure:"delimiter" yaml:"delimiter"`
	ExportDB    string `mapstructure:"export_db" yaml:"export_db"`

	// Report view sizes
	TopReviewsChart  int    `mapstructure:"top_reviews_chart" yaml:"top_reviews_chart"`
	TopReviewsList   int    `mapstructure:"top_reviews_list" yaml:"top_reviews_list"`
	MillionThreshold int64  `mapstructure:"million_threshold" yaml:"million_threshold"`
	EducationGenre   string `mapstructure:"education_genre" yaml:"education_genre"`
	TopEducation     int    `mapstructure:"top_education" yaml:"top_education"`
	TopDevelopers    int    `mapstructure:"top_developers" yaml:"top_developers"`
	CrossTabTop      int    `mapstructure:"crosstab_top" yaml:"crosstab_top"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".appscope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.appscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (APPSCOPE_*, .env included) > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("APPSCOPE")
	v.AutomaticEnv()

	v.SetDefault("output_dir", "charts")
	v.SetDefault("chart_format", "html")
	v.SetDefault("delimiter", "")
	v.SetDefault("export_db", "")
	v.SetDefault("top_reviews_chart", 10)
	v.SetDefault("top_reviews_list", 50)
	v.SetDefault("million_threshold", 1000000)
	v.SetDefault("education_genre", "Education")
	v.SetDefault("top_education", 50)
	v.SetDefault("top_developers", 10)
	v.SetDefault("crosstab_top", 10)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// InitLogger replaces the global zap logger. format is "console" or "json".
func InitLogger(level, format string) error {
	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(lvl)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
