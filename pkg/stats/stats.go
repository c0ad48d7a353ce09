// =============================================================================
// pkg/stats/stats.go - Run Statistics and Progress Tracking
// =============================================================================
//
// This package tracks counters for one conversion run:
//   - raw input lines seen, accepted, and skipped
//   - load-phase keys written
//   - generated operations per operation code
//
// Counters are updated from the (single-threaded) conversion loop and read
// by progress reporting, so they use atomics rather than a mutex; progress
// reports may eventually come from a ticker goroutine.
//
// =============================================================================

package stats

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sia-bench/trace-tools/helpers"
	"github.com/sia-bench/trace-tools/pkg/logging"
)

// RunStats accumulates counters for one workload synthesis run.
type RunStats struct {
	start time.Time

	// Input side
	linesSeen     atomic.Int64
	linesAccepted atomic.Int64
	linesSkipped  atomic.Int64

	// Output side
	loadKeys atomic.Int64
	reads    atomic.Int64
	inserts  atomic.Int64
	scans    atomic.Int64
}

// NewRunStats creates a RunStats with the clock started.
func NewRunStats() *RunStats {
	return &RunStats{start: time.Now()}
}

// LineSeen records one raw input line.
func (rs *RunStats) LineSeen() { rs.linesSeen.Add(1) }

// LineAccepted records one line that passed the record filter.
func (rs *RunStats) LineAccepted() { rs.linesAccepted.Add(1) }

// LineSkipped records one filtered-out line.
func (rs *RunStats) LineSkipped() { rs.linesSkipped.Add(1) }

// LoadKeyWritten records one key written to the load file.
func (rs *RunStats) LoadKeyWritten() { rs.loadKeys.Add(1) }

// OpWritten records one generated operation by its code.
func (rs *RunStats) OpWritten(code string) {
	switch code {
	case "r":
		rs.reads.Add(1)
	case "i":
		rs.inserts.Add(1)
	case "s":
		rs.scans.Add(1)
	}
}

// LinesSeen returns the number of raw input lines consumed so far.
func (rs *RunStats) LinesSeen() int64 { return rs.linesSeen.Load() }

// LinesAccepted returns the number of accepted records so far.
func (rs *RunStats) LinesAccepted() int64 { return rs.linesAccepted.Load() }

// LinesSkipped returns the number of filtered-out lines so far.
func (rs *RunStats) LinesSkipped() int64 { return rs.linesSkipped.Load() }

// LoadKeys returns the number of load-phase keys written so far.
func (rs *RunStats) LoadKeys() int64 { return rs.loadKeys.Load() }

// Ops returns the generated operation counts (reads, inserts, scans).
func (rs *RunStats) Ops() (reads, inserts, scans int64) {
	return rs.reads.Load(), rs.inserts.Load(), rs.scans.Load()
}

// TotalOps returns the total number of generated operations.
func (rs *RunStats) TotalOps() int64 {
	return rs.reads.Load() + rs.inserts.Load() + rs.scans.Load()
}

// Elapsed returns the wall time since the run started.
func (rs *RunStats) Elapsed() time.Duration {
	return time.Since(rs.start)
}

// Progress logs a one-line progress report.
func (rs *RunStats) Progress(log logging.Logger) {
	elapsed := rs.Elapsed()
	log.Info("progress: %s lines (%s accepted, %s skipped), %s load keys, %s ops, %s elapsed, %s",
		helpers.FormatNumber(rs.LinesSeen()),
		helpers.FormatNumber(rs.LinesAccepted()),
		helpers.FormatNumber(rs.LinesSkipped()),
		helpers.FormatNumber(rs.LoadKeys()),
		helpers.FormatNumber(rs.TotalOps()),
		helpers.FormatDuration(elapsed),
		helpers.FormatRate(rs.LinesSeen(), elapsed))
}

// Summary logs the final multi-line report for a completed run.
func (rs *RunStats) Summary(log logging.Logger) {
	reads, inserts, scans := rs.Ops()
	total := reads + inserts + scans

	log.Separator()
	log.Info("input lines:     %s", helpers.FormatNumber(rs.LinesSeen()))
	log.Info("  accepted:      %s", helpers.FormatNumber(rs.LinesAccepted()))
	log.Info("  skipped:       %s", helpers.FormatNumber(rs.LinesSkipped()))
	log.Info("load keys:       %s", helpers.FormatNumber(rs.LoadKeys()))
	log.Info("operations:      %s", helpers.FormatNumber(total))
	if total > 0 {
		log.Info("  reads:         %s (%s)", helpers.FormatNumber(reads), helpers.FormatPercent(pct(reads, total), 2))
		log.Info("  inserts:       %s (%s)", helpers.FormatNumber(inserts), helpers.FormatPercent(pct(inserts, total), 2))
		log.Info("  scans:         %s (%s)", helpers.FormatNumber(scans), helpers.FormatPercent(pct(scans, total), 2))
	}
	log.Info("elapsed:         %s (%s)", helpers.FormatDuration(rs.Elapsed()), helpers.FormatRate(rs.LinesSeen(), rs.Elapsed()))
	log.Separator()
}

// String returns a compact single-line summary, mostly for tests.
func (rs *RunStats) String() string {
	reads, inserts, scans := rs.Ops()
	return fmt.Sprintf("seen=%d accepted=%d skipped=%d load=%d r=%d i=%d s=%d",
		rs.LinesSeen(), rs.LinesAccepted(), rs.LinesSkipped(), rs.LoadKeys(), reads, inserts, scans)
}

func pct(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
