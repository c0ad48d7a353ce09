// =============================================================================
// pkg/trace/synth.go - Per-Workload Operation Synthesis
// =============================================================================
//
// After the load phase, every accepted key is turned into one benchmark
// operation according to the selected workload profile. The profiles mirror
// the YCSB workload definitions the downstream drivers expect:
//
//	Workload D - read-latest: 90% reads biased toward recently inserted
//	             keys, 10% inserts. Read targets are drawn uniformly from
//	             a FIFO of the 10 most recently inserted keys.
//
//	Workload E - short ranges: 90% scans starting at a uniformly random
//	             previously-inserted key (load-phase keys included), 10%
//	             inserts.
//
// The 0.9/0.1 split and the depth-10 recency buffer are profile constants.
// Changing them changes the trace distribution and breaks comparability
// with runs produced by earlier versions of this tool, so they are not
// exposed as configuration.
//
// =============================================================================

package trace

import (
	"fmt"
	"math/rand"
)

// =============================================================================
// Operation Codes
// =============================================================================

// Op is the single-character operation code written to worker files.
type Op string

const (
	// OpRead is a point lookup.
	OpRead Op = "r"

	// OpInsert is an insert of a new key.
	OpInsert Op = "i"

	// OpScan is a range scan starting at the given key.
	OpScan Op = "s"
)

// =============================================================================
// Workload Profiles
// =============================================================================

// Workload selects which operation mixture a run produces.
type Workload string

const (
	// WorkloadD is the recency-biased read/insert profile.
	WorkloadD Workload = "D"

	// WorkloadE is the scan/insert profile.
	WorkloadE Workload = "E"
)

// Valid reports whether w names a known workload profile.
func (w Workload) Valid() bool {
	return w == WorkloadD || w == WorkloadE
}

const (
	// readFraction is the probability of a non-insert operation.
	readFraction = 0.9

	// recentBufferDepth bounds the workload D recency buffer.
	recentBufferDepth = 10
)

// =============================================================================
// Synthesizer
// =============================================================================

// Synthesizer converts a stream of incoming keys into benchmark operations
// for one workload profile.
//
// A Synthesizer owns all mutable per-run state: the recency buffer (D), the
// inserted-key history (E), and the random source. State is never shared
// between runs; each workload label gets a fresh Synthesizer so that, for
// example, an E run never scans keys buffered by a preceding D run.
//
// The inserted-key history is a plain slice on purpose. At full scale it
// holds every load-phase and inserted key of a run, and the scan generator
// needs a uniformly random element by position on every operation, so the
// backing structure must be index-addressable in O(1).
type Synthesizer struct {
	workload Workload
	rng      *rand.Rand

	// recentKeys is the workload D recency FIFO, never longer than
	// recentBufferDepth. Index 0 is the oldest entry.
	recentKeys []string

	// insertedKeys is the workload E scan-target pool: every key inserted
	// so far, load phase included. Append-only.
	insertedKeys []string
}

// NewSynthesizer creates a Synthesizer for the given workload drawing from
// the given random source.
func NewSynthesizer(workload Workload, rng *rand.Rand) (*Synthesizer, error) {
	if !workload.Valid() {
		return nil, fmt.Errorf("unknown workload %q", workload)
	}
	return &Synthesizer{
		workload:   workload,
		rng:        rng,
		recentKeys: make([]string, 0, recentBufferDepth),
	}, nil
}

// RegisterLoadKey records a load-phase key as inserted.
//
// Workload E scans must be able to target load-phase keys, so the run
// driver calls this for every key it writes to the load file. Workload D
// ignores load keys: its recency buffer only tracks keys inserted by the
// operation stream itself.
func (s *Synthesizer) RegisterLoadKey(key string) {
	if s.workload == WorkloadE {
		s.insertedKeys = append(s.insertedKeys, key)
	}
}

// Next synthesizes one operation for the incoming key.
//
// The returned key is the operation's target, which for reads and scans is
// generally not the incoming key itself.
func (s *Synthesizer) Next(incoming string) (Op, string) {
	switch s.workload {
	case WorkloadD:
		return s.nextD(incoming)
	default:
		return s.nextE(incoming)
	}
}

func (s *Synthesizer) nextD(incoming string) (Op, string) {
	if s.rng.Float64() < readFraction {
		if len(s.recentKeys) == 0 {
			// Nothing inserted yet: read the key that just arrived, even
			// though it was never stored. Downstream drivers rely on the
			// exact trace shape this produces, so keep it.
			return OpRead, incoming
		}
		return OpRead, s.recentKeys[s.rng.Intn(len(s.recentKeys))]
	}

	if len(s.recentKeys) == recentBufferDepth {
		// Evict the oldest entry before pushing.
		copy(s.recentKeys, s.recentKeys[1:])
		s.recentKeys = s.recentKeys[:recentBufferDepth-1]
	}
	s.recentKeys = append(s.recentKeys, incoming)
	return OpInsert, incoming
}

func (s *Synthesizer) nextE(incoming string) (Op, string) {
	if s.rng.Float64() < readFraction {
		if len(s.insertedKeys) == 0 {
			// Only possible with a zero-length load phase. Fall back to the
			// incoming key, same degenerate shape as workload D reads.
			return OpScan, incoming
		}
		return OpScan, s.insertedKeys[s.rng.Intn(len(s.insertedKeys))]
	}

	s.insertedKeys = append(s.insertedKeys, incoming)
	return OpInsert, incoming
}

// RecentKeyCount returns the current depth of the workload D recency buffer.
func (s *Synthesizer) RecentKeyCount() int {
	return len(s.recentKeys)
}

// InsertedKeyCount returns the number of keys registered as inserted.
func (s *Synthesizer) InsertedKeyCount() int {
	return len(s.insertedKeys)
}
