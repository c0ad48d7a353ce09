package stats

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sia-bench/trace-tools/pkg/logging"
)

func TestRunStatsCounters(t *testing.T) {
	rs := NewRunStats()

	for i := 0; i < 5; i++ {
		rs.LineSeen()
	}
	rs.LineAccepted()
	rs.LineAccepted()
	rs.LineSkipped()
	rs.LoadKeyWritten()
	rs.OpWritten("r")
	rs.OpWritten("r")
	rs.OpWritten("i")
	rs.OpWritten("s")

	require.Equal(t, int64(5), rs.LinesSeen())
	require.Equal(t, int64(2), rs.LinesAccepted())
	require.Equal(t, int64(1), rs.LinesSkipped())
	require.Equal(t, int64(1), rs.LoadKeys())

	reads, inserts, scans := rs.Ops()
	require.Equal(t, int64(2), reads)
	require.Equal(t, int64(1), inserts)
	require.Equal(t, int64(1), scans)
	require.Equal(t, int64(4), rs.TotalOps())
}

func TestRunStatsUnknownOpIgnored(t *testing.T) {
	rs := NewRunStats()
	rs.OpWritten("x")
	require.Equal(t, int64(0), rs.TotalOps())
}

func TestRunStatsReports(t *testing.T) {
	// Progress and Summary must not panic on an empty or populated tracker.
	rs := NewRunStats()
	rs.Progress(logging.Discard())
	rs.Summary(logging.Discard())

	rs.LineSeen()
	rs.LineAccepted()
	rs.OpWritten("i")
	rs.Progress(logging.Discard())
	rs.Summary(logging.Discard())

	require.Contains(t, rs.String(), "i=1")
}
