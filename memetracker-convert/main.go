// =============================================================================
// main.go - Entry Point for memetracker-convert
// =============================================================================
//
// memetracker-convert turns raw MemeTracker quote dumps into fixed-format
// benchmark workload files. For each configured workload label it writes
//
//	<output-dir>/Workload<L>/workload_<L>_load
//	<output-dir>/Workload<L>/workload_<L>_worker_<i>   (i = 0..threads-1)
//
// USAGE:
//
//	memetracker-convert \
//	  --config /path/to/profile.toml \
//	  --output-dir /data/traces \
//	  --log-file /var/log/memetracker-convert.log \
//	  --error-file /var/log/memetracker-convert.err \
//	  [--seed 42]
//	  [--dry-run]
//
// EXIT CODES:
//
//	0 - Success
//	1 - Configuration error
//	2 - Runtime error
//
// =============================================================================

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sia-bench/trace-tools/helpers"
	"github.com/sia-bench/trace-tools/pkg/logging"
	"github.com/sia-bench/trace-tools/pkg/stats"
	"github.com/sia-bench/trace-tools/pkg/trace"
)

const (
	// Version is the tool version
	Version = "1.0.0"

	// ToolName is the name of this tool
	ToolName = "memetracker-convert"
)

const (
	ExitSuccess      = 0
	ExitConfigError  = 1
	ExitRuntimeError = 2
)

// diskWarnBytes is the free-space level below which a warning is logged
// before starting. A full-scale run writes several hundred GB.
const diskWarnBytes = 100 << 30

func main() {
	config := parseFlags()

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(ExitConfigError)
	}

	logger, err := logging.NewDualLogger(config.LogFile, config.ErrorFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(ExitConfigError)
	}
	defer logger.Close()

	logger.Separator()
	logger.Info("%s v%s starting", ToolName, Version)
	logger.Separator()
	logger.Info("%s", config.Summary())

	if config.DryRun {
		logger.Info("dry run complete, no conversion executed")
		logger.Sync()
		fmt.Println("Dry run complete. Configuration is valid.")
		os.Exit(ExitSuccess)
	}

	checkDiskSpace(config.OutputDir, logger)

	for _, label := range config.Profile.Workloads.Labels {
		runLog := logger.WithScope("WORKLOAD-" + label)
		rs := stats.NewRunStats()

		// Fresh state per label: a run must never observe buffers or key
		// history from a preceding label.
		result, err := trace.Run(config.RunConfigFor(label), runLog, rs)
		if err != nil {
			runLog.Error("conversion failed: %v", err)
			fmt.Fprintf(os.Stderr, "Workload %s conversion failed: %v\n", label, err)
			os.Exit(ExitRuntimeError)
		}

		rs.Summary(runLog)
		if !result.ReachedTarget {
			runLog.Info("input exhausted before the operation target; trace is shorter than nominal")
		}
		logger.Sync()
	}

	logger.Info("all workloads converted")
	fmt.Println("Conversion completed successfully")
	os.Exit(ExitSuccess)
}

// checkDiskSpace warns when the output filesystem looks too small for a
// full-scale conversion. It never aborts: small test runs are legitimate.
func checkDiskSpace(dir string, logger logging.Logger) {
	free, err := helpers.DiskFree(dir)
	if err != nil {
		logger.Error("could not check free disk space: %v", err)
		return
	}
	logger.Info("output filesystem free space: %s", helpers.FormatBytes(free))
	if free < diskWarnBytes {
		logger.Error("less than %s free on the output filesystem; a full-scale run may not fit",
			helpers.FormatBytes(diskWarnBytes))
	}
}

// parseFlags parses command-line flags and returns a Config.
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.ProfilePath, "config", "", "Path to TOML profile file (required)")
	flag.StringVar(&config.OutputDir, "output-dir", "", "Base output directory (required)")
	flag.StringVar(&config.LogFile, "log-file", "", "Path to main log file (required)")
	flag.StringVar(&config.ErrorFile, "error-file", "", "Path to error log file (required)")
	flag.Int64Var(&config.Seed, "seed", 0, "Random seed; 0 seeds from the clock, nonzero makes runs reproducible")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Validate configuration and exit without converting")

	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", ToolName)
		fmt.Fprintf(os.Stderr, "%s converts MemeTracker quote dumps into benchmark workload traces.\n\n", ToolName)
		fmt.Fprintf(os.Stderr, "Required flags:\n")
		fmt.Fprintf(os.Stderr, "  --config PATH      TOML profile (input files, workload parameters)\n")
		fmt.Fprintf(os.Stderr, "  --output-dir PATH  Base output directory\n")
		fmt.Fprintf(os.Stderr, "  --log-file PATH    Path to main log file\n")
		fmt.Fprintf(os.Stderr, "  --error-file PATH  Path to error log file\n")
		fmt.Fprintf(os.Stderr, "\nOptional flags:\n")
		fmt.Fprintf(os.Stderr, "  --seed N           Fixed random seed for reproducible traces\n")
		fmt.Fprintf(os.Stderr, "  --dry-run          Validate configuration and exit\n")
		fmt.Fprintf(os.Stderr, "  --version          Show version and exit\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", ToolName, Version)
		os.Exit(ExitSuccess)
	}

	return config
}
