package main

import (
	"fmt"
	"time"

	"github.com/hardisty/hardisty/internal/analytics"
	"github.com/hardisty/hardisty/internal/cache"
	"github.com/hardisty/hardisty/internal/config"
	"github.com/hardisty/hardisty/internal/engine"
	"github.com/hardisty/hardisty/internal/logging"
	"github.com/hardisty/hardisty/internal/snapshotfile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// viperKeyAnnotation marks a flag that overrides a config key
	viperKeyAnnotation = "hardisty/viper-key"

	// snapshotAnnotation marks a command that computes views from a snapshot
	snapshotAnnotation = "hardisty/snapshot"
)

// app holds the state shared by all subcommands of one invocation
type app struct {
	// raw flags
	configPath   string
	snapshotPath string
	nowFlag      string
	noColor      bool

	cfg      *config.Config
	logger   *logging.Logger
	cache    *cache.SourceCache
	engine   *engine.Engine
	snapshot *analytics.Snapshot
	now      time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "hardisty",
		Short: "Aggregate analytics snapshots into calendar-aligned series, trends and statistics.",
		Long: `Hardisty reads a snapshot of collected counts and presents it as:

- a time series bucketed by day, week, month, quarter, half year or year
- a trending KPI with the change against the previous period
- a sorted list or chart of grouped counts
- a distribution summary with a gaussian estimate or histogram

Settings come from a YAML config file, HARDISTY_* environment variables and flags,
in increasing order of precedence.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) { a.teardown() },
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./config.yaml)")
	pf.StringVarP(&a.snapshotPath, "snapshot", "s", "", "snapshot file (.json, or .sz for snappy compressed)")
	pf.StringVar(&a.nowFlag, "now", "", "reference time as RFC 3339 or YYYY-MM-DD (default current time)")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored trend arrows")
	pf.String("timezone", "", "calendar timezone, IANA name or +HH:MM offset")
	pf.String("week-start", "", "first day of the week: monday or sunday")
	pf.Bool("split-multi-month", false, "bucket 3m and 6m scopes by quarter and half year")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	bindFlag(pf, "timezone", "calendar.timezone")
	bindFlag(pf, "week-start", "calendar.week_start")
	bindFlag(pf, "split-multi-month", "calendar.split_multi_month")
	bindFlag(pf, "log-level", "logging.level")

	root.AddCommand(
		newSeriesCmd(a),
		newKPICmd(a),
		newListCmd(a),
		newChartCmd(a),
		newDistributionCmd(a),
		newReportCmd(a),
	)

	// help and completion are added by cobra at execution time and stay unmarked
	for _, c := range root.Commands() {
		c.Annotations = map[string]string{snapshotAnnotation: "required"}
	}

	return root
}

// bindFlag records that flag name overrides config key
func bindFlag(fs *pflag.FlagSet, name, key string) {
	_ = fs.SetAnnotation(name, viperKeyAnnotation, []string{key})
}

// setup resolves configuration, logging, the snapshot and the engine for
// commands that need a snapshot; the root command and help skip it
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[snapshotAnnotation] == "" {
		return nil
	}

	v, err := config.NewViper(a.configPath)
	if err != nil {
		return err
	}
	if err := bindAnnotatedFlags(v, cmd.Flags()); err != nil {
		return err
	}

	a.cfg, err = config.LoadWith(v)
	if err != nil {
		return err
	}

	a.logger, err = logging.NewFromConfig(a.cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logging.SetGlobal(a.logger)

	cal, err := a.cfg.Calendar.Calendar()
	if err != nil {
		return err
	}

	a.now, err = parseNow(a.nowFlag, cal.Location)
	if err != nil {
		return err
	}

	if a.snapshotPath == "" {
		return fmt.Errorf("--snapshot is required")
	}
	a.snapshot, err = snapshotfile.Load(a.snapshotPath, cal.Location)
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithLogger(a.logger)}
	if a.cfg.Cache.Enabled {
		a.cache = cache.NewSourceCache(a.cfg.Cache.TTL)
		opts = append(opts, engine.WithCache(a.cache))
	}
	a.engine = engine.New(cal, opts...)

	a.logger.Debug("Snapshot loaded",
		"path", a.snapshotPath,
		"empty", a.snapshot.IsEmpty(),
		"timezone", cal.Location.String(),
		"now", a.now.Format(time.RFC3339))

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

func (a *app) teardown() {
	if a.cache != nil {
		a.cache.Stop()
	}
}

func (a *app) palette() palette {
	return newPalette(!a.noColor)
}

// bindAnnotatedFlags binds every changed flag carrying a config key to v
func bindAnnotatedFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[viperKeyAnnotation]
		if len(keys) == 0 || err != nil {
			return
		}
		if bindErr := v.BindPFlag(keys[0], f); bindErr != nil {
			err = fmt.Errorf("failed to bind --%s: %w", f.Name, bindErr)
		}
	})
	return err
}

func parseNow(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --now %q: want RFC 3339 or YYYY-MM-DD", value)
}
