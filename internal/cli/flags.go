package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	NoColor    bool
}

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command, flags *GlobalFlags) {
	cmd.PersistentFlags().StringVar(
		&flags.ConfigFile,
		"config",
		"",
		"config file (default: ./config.yaml, ./config.json, then $HOME/.config/codecompass/config.yaml)",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (debug log lines on stderr)",
	)
	cmd.PersistentFlags().BoolVarP(
		&flags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().BoolVar(
		&flags.NoColor,
		"no-color",
		false,
		"disable colored output",
	)
}

// CompareFlags holds the flags shared by compare and watch
type CompareFlags struct {
	Base      string
	Target    string
	QuickScan bool
	Ignore    []string
	IgnoreExt []string
	Parallel  int
	Hash      string
	Bandwidth string
	OutputDir string
	Format    string
	NoReport  bool
	GitIgnore bool

	LogFile   string
	LogFormat string
	LogLevel  string

	// watch only
	Debounce time.Duration
}

func addCompareFlags(cmd *cobra.Command, flags *CompareFlags) {
	f := cmd.Flags()
	f.StringVarP(&flags.Base, "base", "b", "", "base project directory (overrides base_project_path)")
	f.StringVarP(&flags.Target, "target", "t", "", "target project directory (overrides target_project_path)")
	f.BoolVar(&flags.QuickScan, "quick-scan", false, "check existence only, skip content comparison")
	f.StringSliceVar(&flags.Ignore, "ignore", nil, "ignored names, paths or glob patterns (replaces ignored_patterns)")
	f.StringSliceVar(&flags.IgnoreExt, "ignore-ext", nil, "ignored file extensions (replaces ignored_file_extensions)")
	f.IntVarP(&flags.Parallel, "parallel", "p", 0, "number of parallel workers")
	f.StringVar(&flags.Hash, "hash", "", "content digest: sha256, md5")
	f.StringVar(&flags.Bandwidth, "bandwidth", "", "limit read bandwidth, e.g. 10M, 512K (0 = unlimited)")
	f.StringVarP(&flags.OutputDir, "output-dir", "o", "", "directory for report files")
	f.StringVar(&flags.Format, "format", "", "report format: text, json")
	f.BoolVar(&flags.NoReport, "no-report", false, "do not write a report file")
	f.BoolVar(&flags.GitIgnore, "gitignore", false, "also apply the base project's .gitignore")
	f.StringVar(&flags.LogFile, "log-file", "", "write logs to this file")
	f.StringVar(&flags.LogFormat, "log-format", "", "log format: text, json")
	f.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}
