// =============================================================================
// config.go - Configuration for memetracker-convert
// =============================================================================
//
// Configuration is split between:
//   - TOML profile file: the input file list and the workload parameters
//     (thread count, load size, per-thread target, key width, labels)
//   - Command line: runtime controls (output directory, seed, log paths,
//     dry-run)
//
// The profile defaults reproduce the canonical MemeTracker conversion:
// 16 threads, 10M load keys, 40M per-thread target, 128-byte keys,
// workloads D and E.
//
// =============================================================================

package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/sia-bench/trace-tools/helpers"
	"github.com/sia-bench/trace-tools/pkg/trace"
)

// =============================================================================
// TOML Profile
// =============================================================================

// Profile is the TOML profile file structure.
type Profile struct {
	Inputs    InputsConfig    `toml:"inputs"`
	Workloads WorkloadsConfig `toml:"workloads"`
}

// InputsConfig lists the raw quote dumps to convert.
type InputsConfig struct {
	// Files are read sequentially, in this order, as one concatenated
	// record stream. Order matters: it determines which keys land in the
	// load phase. Entries may be plain text, .gz or .zst.
	Files []string `toml:"files"`
}

// WorkloadsConfig holds the synthesis parameters shared by all labels.
type WorkloadsConfig struct {
	// Labels are the workload profiles to generate, each as a fully
	// independent pass over the inputs.
	Labels []string `toml:"labels"`

	// NumThreads is the number of worker trace files per label.
	NumThreads int `toml:"num_threads"`

	// InitialLoadCount is the number of keys routed to the load file.
	InitialLoadCount int64 `toml:"initial_load_count"`

	// PerThreadTargetCount bounds the operations generated per worker.
	PerThreadTargetCount int64 `toml:"per_thread_target_count"`

	// KeyWidth is the fixed key width in bytes. Raw keys longer than this
	// abort the run.
	KeyWidth int `toml:"key_width"`
}

// DefaultProfile returns the canonical MemeTracker conversion parameters.
func DefaultProfile() Profile {
	return Profile{
		Workloads: WorkloadsConfig{
			Labels:               []string{"D", "E"},
			NumThreads:           16,
			InitialLoadCount:     10_000_000,
			PerThreadTargetCount: 40_000_000,
			KeyWidth:             128,
		},
	}
}

// LoadProfile reads and parses the TOML profile at path, applied on top of
// the defaults.
func LoadProfile(path string) (*Profile, error) {
	profile := DefaultProfile()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &profile, nil
}

// =============================================================================
// Runtime Configuration (command line)
// =============================================================================

// Config is the final, validated tool configuration.
type Config struct {
	ProfilePath string
	OutputDir   string
	Seed        int64
	LogFile     string
	ErrorFile   string
	DryRun      bool

	Profile Profile
}

// Validate checks required flags, loads the profile, and validates the
// merged configuration.
func (c *Config) Validate() error {
	if c.ProfilePath == "" {
		return fmt.Errorf("--config is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--output-dir is required")
	}
	if c.LogFile == "" {
		return fmt.Errorf("--log-file is required")
	}
	if c.ErrorFile == "" {
		return fmt.Errorf("--error-file is required")
	}

	profile, err := LoadProfile(c.ProfilePath)
	if err != nil {
		return err
	}
	c.Profile = *profile

	w := c.Profile.Workloads
	if len(c.Profile.Inputs.Files) == 0 {
		return fmt.Errorf("profile lists no input files")
	}
	for _, f := range c.Profile.Inputs.Files {
		if !helpers.FileExists(f) {
			return fmt.Errorf("input file does not exist: %s", f)
		}
	}
	if len(w.Labels) == 0 {
		return fmt.Errorf("profile lists no workload labels")
	}
	for _, label := range w.Labels {
		if !trace.Workload(label).Valid() {
			return fmt.Errorf("unknown workload label %q (want D or E)", label)
		}
	}
	if w.NumThreads <= 0 {
		return fmt.Errorf("num_threads must be positive, got %d", w.NumThreads)
	}
	if w.InitialLoadCount < 0 {
		return fmt.Errorf("initial_load_count must be non-negative, got %d", w.InitialLoadCount)
	}
	if w.PerThreadTargetCount <= 0 {
		return fmt.Errorf("per_thread_target_count must be positive, got %d", w.PerThreadTargetCount)
	}
	if w.KeyWidth <= 0 {
		return fmt.Errorf("key_width must be positive, got %d", w.KeyWidth)
	}

	return helpers.EnsureDir(c.OutputDir)
}

// RunConfigFor builds the synthesis configuration for one workload label.
func (c *Config) RunConfigFor(label string) trace.RunConfig {
	w := c.Profile.Workloads
	return trace.RunConfig{
		Workload:             trace.Workload(label),
		InputFiles:           c.Profile.Inputs.Files,
		OutputDir:            c.OutputDir,
		NumThreads:           w.NumThreads,
		InitialLoadCount:     w.InitialLoadCount,
		PerThreadTargetCount: w.PerThreadTargetCount,
		KeyWidth:             w.KeyWidth,
		Seed:                 c.Seed,
	}
}

// Summary returns a human-readable configuration summary for the log.
func (c *Config) Summary() string {
	w := c.Profile.Workloads

	s := "MEMETRACKER CONVERSION CONFIGURATION\n"
	s += fmt.Sprintf("  Profile:          %s\n", c.ProfilePath)
	s += fmt.Sprintf("  Output Dir:       %s\n", c.OutputDir)
	if c.Seed != 0 {
		s += fmt.Sprintf("  Seed:             %d (reproducible)\n", c.Seed)
	} else {
		s += "  Seed:             from clock\n"
	}
	s += fmt.Sprintf("  Workloads:        %v\n", w.Labels)
	s += fmt.Sprintf("  Threads:          %d\n", w.NumThreads)
	s += fmt.Sprintf("  Load Keys:        %s\n", helpers.FormatNumber(w.InitialLoadCount))
	s += fmt.Sprintf("  Per-Thread Ops:   %s\n", helpers.FormatNumber(w.PerThreadTargetCount))
	s += fmt.Sprintf("  Key Width:        %d bytes\n", w.KeyWidth)
	s += fmt.Sprintf("  Input Files:      %d\n", len(c.Profile.Inputs.Files))
	for _, f := range c.Profile.Inputs.Files {
		s += fmt.Sprintf("    %s\n", f)
	}
	return s
}
