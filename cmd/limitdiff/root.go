package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/limitdiff/internal/config"
	"github.com/JonMunkholm/limitdiff/internal/core"
	"github.com/JonMunkholm/limitdiff/internal/logging"
)

// parseFlags are the persistent flags that override parse settings.
type parseFlags struct {
	profile             string
	parametric          string
	metrics             []string
	beginFromParametric bool
	nulls               []string
	blankIsNull         bool
	key                 string
	sheet               string
	logLevel            string
}

func newRootCmd() *cobra.Command {
	var pf parseFlags

	root := &cobra.Command{
		Use:   "limitdiff",
		Short: "Compare two versions of a test-limit table",
		Long: `limitdiff reads test-limit tables (CSV or XLSX) made of a key row naming
parametric test items followed by metric rows (min, max, ...) and reports
which keys were added, removed, changed or left unchanged between versions.

Parse settings come from LIMITDIFF_* environment variables, an optional
.env file, a YAML profile (--profile) and flags, in increasing priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.StringVar(&pf.profile, "profile", "", "YAML parse profile")
	f.StringVar(&pf.parametric, "parametric", "", "text locating the parametric column")
	f.StringSliceVar(&pf.metrics, "metrics", nil, "metric row labels, in order (e.g. min,max,avg)")
	f.BoolVar(&pf.beginFromParametric, "begin-from-parametric", false, "treat the parametric column as a data column")
	f.StringSliceVar(&pf.nulls, "nulls", nil, "cell values meaning no value")
	f.BoolVar(&pf.blankIsNull, "blank-is-null", true, "treat empty cells as no value")
	f.StringVar(&pf.key, "key", "", "text locating the key row")
	f.StringVar(&pf.sheet, "sheet", "", "XLSX worksheet (default: first sheet)")
	f.StringVar(&pf.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newCompareCmd(&pf),
		newInspectCmd(&pf),
		newServeCmd(&pf),
		newVersionCmd(),
	)
	return root
}

// loadConfig builds the configuration from the environment, the profile and
// the flags that were set on cmd, then validates it.
func loadConfig(cmd *cobra.Command, pf *parseFlags, logOut io.Writer) (*config.Config, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	if pf.profile != "" {
		p, err := config.LoadProfile(pf.profile)
		if err != nil {
			return nil, err
		}
		p.Apply(&cfg.Parse)
	}

	flags := cmd.Flags()
	if flags.Changed("parametric") {
		cfg.Parse.ParametricMarker = pf.parametric
	}
	if flags.Changed("metrics") {
		cfg.Parse.Metrics = pf.metrics
	}
	if flags.Changed("begin-from-parametric") {
		cfg.Parse.BeginFromParametric = pf.beginFromParametric
	}
	if flags.Changed("nulls") {
		cfg.Parse.NullValues = pf.nulls
		cfg.Parse.BlankIsNull = false
	}
	if flags.Changed("blank-is-null") {
		cfg.Parse.BlankIsNull = pf.blankIsNull
	}
	if flags.Changed("key") {
		cfg.Parse.KeyMarker = pf.key
	}
	if flags.Changed("sheet") {
		cfg.Parse.Sheet = pf.sheet
	}
	if pf.logLevel != "" {
		cfg.Logging.Level = pf.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logOut)
	return cfg, nil
}

func newService(cfg *config.Config) *core.Service {
	return core.NewService(core.Config{
		MaxConcurrent: cfg.Compare.MaxConcurrent,
		MaxWait:       cfg.Compare.MaxWaitTime,
		Timeout:       cfg.Compare.Timeout,
	})
}
