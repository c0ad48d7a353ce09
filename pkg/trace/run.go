// =============================================================================
// pkg/trace/run.go - Workload Synthesis Run Driver
// =============================================================================
//
// A run reads the configured input files in order and produces, for one
// workload label:
//
//	<output-dir>/Workload<L>/workload_<L>_load        load-phase keys
//	<output-dir>/Workload<L>/workload_<L>_worker_<i>  per-thread op traces
//
// The run has exactly two phases. The first InitialLoadCount accepted keys
// go to the load file; every accepted key after that is handed to the
// workload's operation synthesizer and the resulting "<op> <key>" line is
// dealt round-robin across the worker files. The run stops early once
// PerThreadTargetCount-1 full rounds have been dealt, or cleanly when input
// runs out first.
//
// "Threads" here are purely an output partitioning concept: the benchmark
// drivers later replay one worker file per thread, but this generator is
// single-threaded and processes one line at a time.
//
// =============================================================================

package trace

import (
	"bufio"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/sia-bench/trace-tools/helpers"
	"github.com/sia-bench/trace-tools/helpers/input"
	"github.com/sia-bench/trace-tools/pkg/logging"
	"github.com/sia-bench/trace-tools/pkg/stats"
)

// scanBufferSize caps the length of a single input line. MemeTracker quote
// lines can run long, but never anywhere near this.
const scanBufferSize = 4 << 20

// progressInterval is how many accepted records pass between progress log
// lines.
const progressInterval = 10_000_000

// =============================================================================
// Run Configuration
// =============================================================================

// RunConfig configures one workload synthesis run.
type RunConfig struct {
	// Workload selects the operation synthesizer (D or E).
	Workload Workload

	// InputFiles are read sequentially, in the given order, as one
	// concatenated record stream.
	InputFiles []string

	// OutputDir is the base output directory. The run writes into
	// OutputDir/Workload<L>/.
	OutputDir string

	// NumThreads is the number of worker trace files to produce.
	NumThreads int

	// InitialLoadCount is the number of accepted keys routed to the load
	// file before operation generation starts.
	InitialLoadCount int64

	// PerThreadTargetCount bounds the generated operations: the run stops
	// after PerThreadTargetCount-1 full round-robin rounds.
	PerThreadTargetCount int64

	// KeyWidth is the fixed output key width in bytes.
	KeyWidth int

	// Seed seeds the random source. Zero means seed from the clock; any
	// other value makes the run reproducible bit-for-bit.
	Seed int64
}

// Validate checks the configuration for a runnable state.
func (c *RunConfig) Validate() error {
	if !c.Workload.Valid() {
		return fmt.Errorf("unknown workload %q", c.Workload)
	}
	if len(c.InputFiles) == 0 {
		return fmt.Errorf("no input files configured")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.NumThreads <= 0 {
		return fmt.Errorf("num-threads must be positive, got %d", c.NumThreads)
	}
	if c.InitialLoadCount < 0 {
		return fmt.Errorf("initial-load-count must be non-negative, got %d", c.InitialLoadCount)
	}
	if c.PerThreadTargetCount <= 0 {
		return fmt.Errorf("per-thread-target-count must be positive, got %d", c.PerThreadTargetCount)
	}
	if c.KeyWidth <= 0 {
		return fmt.Errorf("key-width must be positive, got %d", c.KeyWidth)
	}
	return nil
}

// WorkloadDir returns the per-label output directory.
func (c *RunConfig) WorkloadDir() string {
	return filepath.Join(c.OutputDir, "Workload"+string(c.Workload))
}

// LoadFilePath returns the path of the load-phase output file.
func (c *RunConfig) LoadFilePath() string {
	return filepath.Join(c.WorkloadDir(), fmt.Sprintf("workload_%s_load", c.Workload))
}

// WorkerFilePath returns the path of worker file i.
func (c *RunConfig) WorkerFilePath(i int) string {
	return filepath.Join(c.WorkloadDir(), fmt.Sprintf("workload_%s_worker_%d", c.Workload, i))
}

// =============================================================================
// Run Result
// =============================================================================

// RunResult summarizes a completed run.
type RunResult struct {
	// LoadKeys is the number of keys written to the load file.
	LoadKeys int64

	// Ops is the number of operations written across all worker files.
	Ops int64

	// Rounds is the number of completed round-robin rounds.
	Rounds int64

	// ReachedTarget is true when the run stopped at the operation bound
	// rather than at end of input.
	ReachedTarget bool
}

// =============================================================================
// Run
// =============================================================================

// phase is the run's routing state: load first, then thread generation.
type phase int

const (
	phaseLoad phase = iota
	phaseThreadGen
)

// Run executes one workload synthesis pass over cfg.InputFiles.
//
// All output files are flushed and closed on every exit path, including
// early termination at the operation bound and error aborts.
func Run(cfg RunConfig, log logging.Logger, rs *stats.RunStats) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := helpers.EnsureDir(cfg.WorkloadDir()); err != nil {
		return nil, errors.Wrapf(err, "failed to create workload directory %s", cfg.WorkloadDir())
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	synth, err := NewSynthesizer(cfg.Workload, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	log.Info("starting workload %s run: %d input files, %d threads, load=%s, per-thread target=%s, key width=%d, seed=%d",
		cfg.Workload, len(cfg.InputFiles), cfg.NumThreads,
		helpers.FormatNumber(cfg.InitialLoadCount), helpers.FormatNumber(cfg.PerThreadTargetCount),
		cfg.KeyWidth, seed)

	r := &runState{
		cfg:   cfg,
		log:   log,
		rs:    rs,
		synth: synth,
	}
	if err := r.openOutputs(); err != nil {
		r.closeOutputs()
		return nil, err
	}

	runErr := r.consumeInputs()
	closeErr := r.closeOutputs()
	if runErr != nil {
		return nil, runErr
	}
	if closeErr != nil {
		return nil, closeErr
	}

	result := &RunResult{
		LoadKeys:      r.loadKeys,
		Ops:           r.ops,
		Rounds:        r.rounds,
		ReachedTarget: r.reachedTarget,
	}
	log.Info("workload %s run complete: %s load keys, %s ops (%s rounds), target reached: %v",
		cfg.Workload, helpers.FormatNumber(result.LoadKeys), helpers.FormatNumber(result.Ops),
		helpers.FormatNumber(result.Rounds), result.ReachedTarget)
	return result, nil
}

// runState carries the mutable state of one run.
type runState struct {
	cfg   RunConfig
	log   logging.Logger
	rs    *stats.RunStats
	synth *Synthesizer

	loadWriter    *fileWriter
	workerWriters []*fileWriter

	phase         phase
	loadKeys      int64
	ops           int64
	cursor        int
	rounds        int64
	reachedTarget bool
}

func (r *runState) openOutputs() error {
	lw, err := newFileWriter(r.cfg.LoadFilePath())
	if err != nil {
		return err
	}
	r.loadWriter = lw

	r.workerWriters = make([]*fileWriter, r.cfg.NumThreads)
	for i := range r.workerWriters {
		ww, err := newFileWriter(r.cfg.WorkerFilePath(i))
		if err != nil {
			return err
		}
		r.workerWriters[i] = ww
	}
	return nil
}

// closeOutputs closes every writer that was opened, returning the first
// error. Safe to call with partially opened outputs and after the load
// writer was already closed at the phase transition.
func (r *runState) closeOutputs() error {
	var first error
	if r.loadWriter != nil {
		if err := r.loadWriter.close(); err != nil {
			first = err
		}
	}
	for _, ww := range r.workerWriters {
		if ww == nil {
			continue
		}
		if err := ww.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// consumeInputs streams the input files through the phase router until
// input runs out or the operation bound is hit.
func (r *runState) consumeInputs() error {
	for _, path := range r.cfg.InputFiles {
		done, err := r.consumeFile(path)
		if err != nil {
			return err
		}
		if done {
			r.reachedTarget = true
			return nil
		}
	}
	return nil
}

func (r *runState) consumeFile(path string) (done bool, err error) {
	in, err := input.Open(path)
	if err != nil {
		return false, err
	}
	defer in.Close()

	r.log.Info("reading %s", path)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), scanBufferSize)
	for scanner.Scan() {
		r.rs.LineSeen()

		rawKey, ok := ParseRecord(scanner.Text())
		if !ok {
			r.rs.LineSkipped()
			continue
		}
		r.rs.LineAccepted()

		key, err := PadKey(rawKey, r.cfg.KeyWidth)
		if err != nil {
			return false, err
		}

		done, err := r.routeKey(key)
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}

		if accepted := r.rs.LinesAccepted(); accepted%progressInterval == 0 {
			r.rs.Progress(r.log)
		}
	}
	if err := scanner.Err(); err != nil {
		return false, errors.Wrapf(err, "failed to read %s", path)
	}
	return false, nil
}

// routeKey sends one accepted, normalized key through the current phase.
// It returns done=true when the operation bound has been reached.
func (r *runState) routeKey(key string) (done bool, err error) {
	if r.phase == phaseLoad {
		if r.loadKeys < r.cfg.InitialLoadCount {
			r.synth.RegisterLoadKey(key)
			if err := r.loadWriter.writeLine(key); err != nil {
				return false, err
			}
			r.loadKeys++
			r.rs.LoadKeyWritten()
			return false, nil
		}

		// One-time transition: the load file is complete and closed; this
		// key and everything after it feeds operation generation.
		if err := r.loadWriter.close(); err != nil {
			return false, err
		}
		r.phase = phaseThreadGen
		r.log.Info("load phase complete: %s keys, switching to operation generation",
			helpers.FormatNumber(r.loadKeys))
	}

	op, target := r.synth.Next(key)
	if err := r.workerWriters[r.cursor].writeLine(string(op) + " " + target); err != nil {
		return false, err
	}
	r.ops++
	r.rs.OpWritten(string(op))

	r.cursor++
	if r.cursor == r.cfg.NumThreads {
		r.cursor = 0
		r.rounds++
		if r.rounds >= r.cfg.PerThreadTargetCount-1 {
			return true, nil
		}
	}
	return false, nil
}
