package trace

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// seqSource is a rand.Source that cycles through a fixed value sequence,
// giving tests exact control over which synthesis branch each draw takes:
// 0 forces the read/scan branch, maxDraw forces the insert branch.
type seqSource struct {
	vals []int64
	i    int
}

// maxDraw yields a Float64 draw of exactly 0.9375, safely in the insert
// branch. (The all-ones value is unusable: float64 rounds it up to 1.0 and
// rand.Float64 rejects 1.0 forever.)
const maxDraw = int64(15) << 59

func (s *seqSource) Int63() int64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func (s *seqSource) Seed(int64) {}

func riggedRand(vals ...int64) *rand.Rand {
	return rand.New(&seqSource{vals: vals})
}

func TestNewSynthesizerUnknownWorkload(t *testing.T) {
	_, err := NewSynthesizer(Workload("Z"), riggedRand(0))
	require.Error(t, err)
}

func TestWorkloadDReadFallback(t *testing.T) {
	// All draws force the read branch, so nothing is ever inserted and
	// every read falls back to the incoming key.
	s, err := NewSynthesizer(WorkloadD, riggedRand(0))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("key%d/", i)
		op, target := s.Next(key)
		require.Equal(t, OpRead, op)
		require.Equal(t, key, target)
	}
	require.Equal(t, 0, s.RecentKeyCount())
}

func TestWorkloadDReadsRecentInsert(t *testing.T) {
	// Insert twice, then read: the read must target a buffered key, and
	// with a zero Intn draw it picks the oldest.
	s, err := NewSynthesizer(WorkloadD, riggedRand(maxDraw, maxDraw, 0, 0))
	require.NoError(t, err)

	op, target := s.Next("k1/")
	require.Equal(t, OpInsert, op)
	require.Equal(t, "k1/", target)

	op, target = s.Next("k2/")
	require.Equal(t, OpInsert, op)
	require.Equal(t, "k2/", target)
	require.Equal(t, 2, s.RecentKeyCount())

	op, target = s.Next("k3/")
	require.Equal(t, OpRead, op)
	require.Equal(t, "k1/", target)
	require.Equal(t, 2, s.RecentKeyCount())
}

func TestWorkloadDBufferBound(t *testing.T) {
	// All draws force inserts; the recency buffer must cap at 10 entries
	// with the oldest evicted first.
	s, err := NewSynthesizer(WorkloadD, riggedRand(maxDraw))
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		op, _ := s.Next(fmt.Sprintf("key%02d/", i))
		require.Equal(t, OpInsert, op)
		require.LessOrEqual(t, s.RecentKeyCount(), 10)
	}
	require.Equal(t, 10, s.RecentKeyCount())

	// A read with a zero Intn draw targets the oldest surviving entry,
	// which after 50 inserts is key number 40.
	s.rng = riggedRand(0, 0)
	op, target := s.Next("key50/")
	require.Equal(t, OpRead, op)
	require.Equal(t, "key40/", target)
}

func TestWorkloadDIgnoresLoadKeys(t *testing.T) {
	// Load keys never enter the recency buffer; reads before the first
	// insert still fall back to the incoming key.
	s, err := NewSynthesizer(WorkloadD, riggedRand(0))
	require.NoError(t, err)

	s.RegisterLoadKey("load1/")
	s.RegisterLoadKey("load2/")
	require.Equal(t, 0, s.RecentKeyCount())

	op, target := s.Next("k1/")
	require.Equal(t, OpRead, op)
	require.Equal(t, "k1/", target)
}

func TestWorkloadEScansLoadKeys(t *testing.T) {
	// A zero Intn draw scans the first registered key, which comes from
	// the load phase.
	s, err := NewSynthesizer(WorkloadE, riggedRand(0))
	require.NoError(t, err)

	s.RegisterLoadKey("load1/")
	s.RegisterLoadKey("load2/")
	require.Equal(t, 2, s.InsertedKeyCount())

	op, target := s.Next("k1/")
	require.Equal(t, OpScan, op)
	require.Equal(t, "load1/", target)
}

func TestWorkloadEInsertGrowsHistory(t *testing.T) {
	s, err := NewSynthesizer(WorkloadE, riggedRand(maxDraw))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		op, target := s.Next(fmt.Sprintf("key%02d/", i))
		require.Equal(t, OpInsert, op)
		require.Equal(t, fmt.Sprintf("key%02d/", i), target)
	}
	require.Equal(t, 20, s.InsertedKeyCount())
}

func TestWorkloadEEmptyHistoryFallback(t *testing.T) {
	// No load phase, first draw is a scan: degenerate fallback to the
	// incoming key.
	s, err := NewSynthesizer(WorkloadE, riggedRand(0))
	require.NoError(t, err)

	op, target := s.Next("k1/")
	require.Equal(t, OpScan, op)
	require.Equal(t, "k1/", target)
	require.Equal(t, 0, s.InsertedKeyCount())
}

func TestWorkloadEScanTargetsAreSeen(t *testing.T) {
	// Over a long random mix, every scan must target a previously
	// registered or inserted key.
	s, err := NewSynthesizer(WorkloadE, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("load%d/", i)
		s.RegisterLoadKey(key)
		seen[key] = true
	}

	for i := 0; i < 10_000; i++ {
		key := fmt.Sprintf("key%05d/", i)
		op, target := s.Next(key)
		switch op {
		case OpScan:
			require.True(t, seen[target], "scan target %q was never inserted", target)
		case OpInsert:
			require.Equal(t, key, target)
			seen[key] = true
		default:
			t.Fatalf("unexpected op %q from workload E", op)
		}
	}
}

func TestWorkloadDMixDistribution(t *testing.T) {
	// Sanity-check the 90/10 split over a large sample.
	s, err := NewSynthesizer(WorkloadD, rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	var reads, inserts int
	for i := 0; i < 100_000; i++ {
		op, _ := s.Next(fmt.Sprintf("key%06d/", i))
		if op == OpRead {
			reads++
		} else {
			inserts++
		}
	}
	frac := float64(reads) / float64(reads+inserts)
	require.InDelta(t, 0.9, frac, 0.01)
}
