// =============================================================================
// pkg/twitter/loadtrace.go - Load Trace Extraction
// =============================================================================
//
// The load trace pre-populates the index before the timed phase. It is
// built from the first tableSize reformatted trace lines: each key is
// written the first time it appears, duplicates are dropped. Keys in a
// cache trace repeat constantly, so the resulting load file usually holds
// far fewer than tableSize keys.
//
// =============================================================================

package twitter

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// MakeLoadTrace reads up to tableSize reformatted trace lines from in and
// writes each first-seen key to out, one per line. It returns the number of
// unique keys written. Input shorter than tableSize is not an error.
func MakeLoadTrace(in io.Reader, out io.Writer, tableSize int64) (int64, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	w := bufio.NewWriter(out)

	seen := make(map[string]struct{})
	var unique int64
	for i := int64(0); i < tableSize && scanner.Scan(); i++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		key := fields[1]

		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if _, err := w.WriteString(key + "\n"); err != nil {
			return unique, errors.Wrap(err, "failed to write load trace")
		}
		unique++
	}
	if err := scanner.Err(); err != nil {
		return unique, errors.Wrap(err, "failed to read reformatted trace")
	}
	return unique, w.Flush()
}
