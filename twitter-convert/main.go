// =============================================================================
// main.go - Entry Point for twitter-convert
// =============================================================================
//
// twitter-convert runs the full Twitter cache-trace preparation pipeline
// for one cluster:
//
//	1. Reformat the raw CSV trace into "op key" lines
//	2. Extract the load trace (first N lines, deduplicated keys)
//	3. Split the reformatted trace round-robin into per-thread files
//
// Outputs, for cluster C under --output-dir:
//
//	<output-dir>/<C>/load<C>            load trace (unique keys)
//	<output-dir>/<C>/workload_00..NN    per-thread traces
//
// The intermediate reformatted trace is deleted after splitting unless
// --keep-reformatted is given.
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
	"path/filepath"

	"github.com/sia-bench/trace-tools/helpers"
	"github.com/sia-bench/trace-tools/helpers/input"
	"github.com/sia-bench/trace-tools/pkg/logging"
	"github.com/sia-bench/trace-tools/pkg/twitter"
)

const (
	// Version is the tool version
	Version = "1.0.0"

	// ToolName is the name of this tool
	ToolName = "twitter-convert"
)

const (
	ExitSuccess      = 0
	ExitConfigError  = 1
	ExitRuntimeError = 2
)

// Config holds the twitter-convert command-line configuration.
type Config struct {
	Cluster         string
	InputPath       string
	OutputDir       string
	TableSize       int64
	Threads         int
	LogFile         string
	ErrorFile       string
	KeepReformatted bool
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Cluster == "" {
		return fmt.Errorf("--cluster is required")
	}
	if c.InputPath == "" {
		return fmt.Errorf("--input is required")
	}
	if !helpers.FileExists(c.InputPath) {
		return fmt.Errorf("input file does not exist: %s", c.InputPath)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--output-dir is required")
	}
	if c.TableSize <= 0 {
		return fmt.Errorf("--table-size must be positive, got %d", c.TableSize)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("--threads must be positive, got %d", c.Threads)
	}
	if c.LogFile == "" {
		return fmt.Errorf("--log-file is required")
	}
	if c.ErrorFile == "" {
		return fmt.Errorf("--error-file is required")
	}
	return nil
}

// ClusterDir returns the per-cluster output directory.
func (c *Config) ClusterDir() string {
	return filepath.Join(c.OutputDir, c.Cluster)
}

// ReformattedPath returns the path of the intermediate reformatted trace.
func (c *Config) ReformattedPath() string {
	return filepath.Join(c.OutputDir, "reformatted_"+c.Cluster)
}

// LoadTracePath returns the path of the load trace output.
func (c *Config) LoadTracePath() string {
	return filepath.Join(c.ClusterDir(), "load"+c.Cluster)
}

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
	logger.Info("%s v%s starting: cluster %s, input %s, %d threads, table size %s",
		ToolName, Version, config.Cluster, config.InputPath, config.Threads,
		helpers.FormatNumber(config.TableSize))
	logger.Separator()

	if err := run(config, logger); err != nil {
		logger.Error("pipeline failed: %v", err)
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	logger.Info("pipeline complete")
	logger.Sync()
	fmt.Println("Conversion completed successfully")
	os.Exit(ExitSuccess)
}

// run executes the three pipeline stages.
func run(config *Config, logger logging.Logger) error {
	if err := helpers.EnsureDir(config.ClusterDir()); err != nil {
		return fmt.Errorf("failed to create cluster directory: %w", err)
	}

	// Stage 1: reformat the raw CSV trace.
	raw, err := input.Open(config.InputPath)
	if err != nil {
		return err
	}
	reformatted, err := os.Create(config.ReformattedPath())
	if err != nil {
		raw.Close()
		return fmt.Errorf("failed to create %s: %w", config.ReformattedPath(), err)
	}
	lines, err := twitter.Reformat(raw, reformatted)
	raw.Close()
	if cerr := reformatted.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info("reformatted %s lines into %s", helpers.FormatNumber(lines), config.ReformattedPath())

	// Stage 2: extract the load trace.
	in, err := os.Open(config.ReformattedPath())
	if err != nil {
		return fmt.Errorf("failed to reopen reformatted trace: %w", err)
	}
	loadOut, err := os.Create(config.LoadTracePath())
	if err != nil {
		in.Close()
		return fmt.Errorf("failed to create %s: %w", config.LoadTracePath(), err)
	}
	unique, err := twitter.MakeLoadTrace(in, loadOut, config.TableSize)
	in.Close()
	if cerr := loadOut.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	logger.Info("load trace written: %s unique keys in %s", helpers.FormatNumber(unique), config.LoadTracePath())

	// Stage 3: split into per-thread traces.
	split, err := twitter.SplitTrace(config.ReformattedPath(), config.ClusterDir(), config.Threads)
	if err != nil {
		return err
	}
	logger.Info("split %s lines across %d worker files in %s",
		helpers.FormatNumber(split), config.Threads, config.ClusterDir())

	if !config.KeepReformatted {
		if err := os.Remove(config.ReformattedPath()); err != nil {
			return fmt.Errorf("failed to remove intermediate trace: %w", err)
		}
		logger.Info("removed intermediate trace %s", config.ReformattedPath())
	}
	return nil
}

// parseFlags parses command-line flags and returns a Config.
func parseFlags() *Config {
	config := &Config{}

	flag.StringVar(&config.Cluster, "cluster", "", "Cluster identifier, used in output names (required)")
	flag.StringVar(&config.InputPath, "input", "", "Path to raw Twitter cache trace (required; may be .gz/.zst)")
	flag.StringVar(&config.OutputDir, "output-dir", "", "Base output directory (required)")
	flag.Int64Var(&config.TableSize, "table-size", 10_000_000, "Trace lines to draw load keys from")
	flag.IntVar(&config.Threads, "threads", 16, "Number of per-thread trace files")
	flag.StringVar(&config.LogFile, "log-file", "", "Path to main log file (required)")
	flag.StringVar(&config.ErrorFile, "error-file", "", "Path to error log file (required)")
	flag.BoolVar(&config.KeepReformatted, "keep-reformatted", false, "Keep the intermediate reformatted trace")

	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", ToolName)
		fmt.Fprintf(os.Stderr, "%s prepares a Twitter cache trace for benchmark replay:\n", ToolName)
		fmt.Fprintf(os.Stderr, "reformat, load-trace extraction, per-thread split.\n\n")
		fmt.Fprintf(os.Stderr, "Required flags:\n")
		fmt.Fprintf(os.Stderr, "  --cluster ID        Cluster identifier\n")
		fmt.Fprintf(os.Stderr, "  --input PATH        Raw Twitter cache trace\n")
		fmt.Fprintf(os.Stderr, "  --output-dir PATH   Base output directory\n")
		fmt.Fprintf(os.Stderr, "  --log-file PATH     Path to main log file\n")
		fmt.Fprintf(os.Stderr, "  --error-file PATH   Path to error log file\n")
		fmt.Fprintf(os.Stderr, "\nOptional flags:\n")
		fmt.Fprintf(os.Stderr, "  --table-size N      Trace lines to draw load keys from (default: 10000000)\n")
		fmt.Fprintf(os.Stderr, "  --threads N         Number of per-thread trace files (default: 16)\n")
		fmt.Fprintf(os.Stderr, "  --keep-reformatted  Keep the intermediate reformatted trace\n")
		fmt.Fprintf(os.Stderr, "  --version           Show version and exit\n")
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", ToolName, Version)
		os.Exit(ExitSuccess)
	}

	return config
}
