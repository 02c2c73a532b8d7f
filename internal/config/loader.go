package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hardisty/hardisty/internal/stats"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides, e.g. HARDISTY_CALENDAR_WEEK_START
const EnvPrefix = "HARDISTY"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v, err := NewViper(configPath)
	if err != nil {
		return nil, err
	}
	return LoadWith(v)
}

// NewViper returns a viper instance that has read the config file, if any, and
// resolves HARDISTY_* environment overrides. Callers may bind flags on it
// before passing it to LoadWith.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/hardisty")
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; use defaults
	}

	return v, nil
}

// LoadWith applies defaults to v and decodes and validates the result
func LoadWith(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	// Calendar defaults
	v.SetDefault("calendar.week_start", d.Calendar.WeekStart)
	v.SetDefault("calendar.timezone", d.Calendar.Timezone)
	v.SetDefault("calendar.split_multi_month", d.Calendar.SplitMultiMonth)

	// Time series defaults
	v.SetDefault("time_series.strategy", d.TimeSeries.Strategy)
	v.SetDefault("time_series.initial_scope", d.TimeSeries.InitialScope)
	v.SetDefault("time_series.selectable_scopes", d.TimeSeries.SelectableScopes)
	v.SetDefault("time_series.scroll_to_end", d.TimeSeries.ScrollToEnd)
	v.SetDefault("time_series.show_trends", d.TimeSeries.ShowTrends)
	v.SetDefault("time_series.higher_is_better", d.TimeSeries.HigherIsBetter)

	v.SetDefault("kpi.scope", d.KPI.Scope)
	v.SetDefault("kpi.higher_is_better", d.KPI.HigherIsBetter)

	v.SetDefault("list.visible_values_limit", d.List.VisibleValuesLimit)

	v.SetDefault("distribution.estimate_visible", d.Distribution.EstimateVisible)
	v.SetDefault("distribution.max_curve_points", d.Distribution.MaxCurvePoints)

	// Cache defaults
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL.String())

	// Logging defaults
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			WeekStart: "monday",
			Timezone:  "UTC",
		},
		TimeSeries: TimeSeriesConfig{
			Strategy:         "sum",
			InitialScope:     "week",
			SelectableScopes: []string{"day", "week", "month", "year"},
			ScrollToEnd:      true,
			ShowTrends:       true,
			HigherIsBetter:   true,
		},
		KPI: KPIConfig{
			Scope:          "week",
			HigherIsBetter: true,
		},
		List: ListConfig{
			VisibleValuesLimit: 10,
		},
		Distribution: DistributionConfig{
			EstimateVisible: true,
			MaxCurvePoints:  stats.DefaultMaxCurvePoints,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
			TimeFormat: "RFC3339",
		},
	}
}
