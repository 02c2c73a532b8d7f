package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Calendar     CalendarConfig     `mapstructure:"calendar"`
	TimeSeries   TimeSeriesConfig   `mapstructure:"time_series"`
	KPI          KPIConfig          `mapstructure:"kpi"`
	List         ListConfig         `mapstructure:"list"`
	Distribution DistributionConfig `mapstructure:"distribution"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// CalendarConfig controls bucket boundaries
type CalendarConfig struct {
	WeekStart       string `mapstructure:"week_start"`        // monday, sunday
	Timezone        string `mapstructure:"timezone"`          // IANA name ("Asia/Tokyo") or offset ("+09:00"); empty means UTC
	SplitMultiMonth bool   `mapstructure:"split_multi_month"` // Bucket 3m/6m by quarter/half year instead of by year
}

// TimeSeriesConfig holds the defaults for time series views
type TimeSeriesConfig struct {
	Strategy         string   `mapstructure:"strategy"` // sum, interpolate_and_average
	InitialScope     string   `mapstructure:"initial_scope"`
	SelectableScopes []string `mapstructure:"selectable_scopes"`
	ScrollToEnd      bool     `mapstructure:"scroll_to_end"`
	ShowTrends       bool     `mapstructure:"show_trends"`
	HigherIsBetter   bool     `mapstructure:"higher_is_better"`
}

// KPIConfig holds the defaults for trending KPI views
type KPIConfig struct {
	Scope          string `mapstructure:"scope"`
	HigherIsBetter bool   `mapstructure:"higher_is_better"`
}

// ListConfig holds the defaults for list views
type ListConfig struct {
	VisibleValuesLimit int `mapstructure:"visible_values_limit"`
}

// DistributionConfig holds the defaults for distribution views
type DistributionConfig struct {
	EstimateVisible bool `mapstructure:"estimate_visible"` // Show the gaussian estimate instead of the histogram
	MaxCurvePoints  int  `mapstructure:"max_curve_points"` // Upper bound on gaussian estimate points
}

// CacheConfig controls memoization of built sources
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Calendar.Validate(); err != nil {
		return fmt.Errorf("calendar config: %w", err)
	}

	if err := c.TimeSeries.Validate(); err != nil {
		return fmt.Errorf("time_series config: %w", err)
	}

	if err := c.KPI.Validate(); err != nil {
		return fmt.Errorf("kpi config: %w", err)
	}

	if err := c.List.Validate(); err != nil {
		return fmt.Errorf("list config: %w", err)
	}

	if err := c.Distribution.Validate(); err != nil {
		return fmt.Errorf("distribution config: %w", err)
	}

	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates calendar configuration
func (c *CalendarConfig) Validate() error {
	if c.WeekStart != "monday" && c.WeekStart != "sunday" {
		return fmt.Errorf("calendar.week_start must be 'monday' or 'sunday'")
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// Validate validates time series configuration
func (c *TimeSeriesConfig) Validate() error {
	_, err := c.Detail()
	return err
}

// Validate validates KPI configuration
func (c *KPIConfig) Validate() error {
	_, err := c.Detail()
	return err
}

// Validate validates list configuration
func (c *ListConfig) Validate() error {
	if c.VisibleValuesLimit < 1 {
		return fmt.Errorf("list.visible_values_limit must be at least 1")
	}

	return nil
}

// Validate validates distribution configuration
func (c *DistributionConfig) Validate() error {
	if c.MaxCurvePoints < 0 {
		return fmt.Errorf("distribution.max_curve_points must not be negative")
	}
	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	if c.Enabled && c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when the cache is enabled")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
