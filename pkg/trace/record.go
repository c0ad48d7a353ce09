// =============================================================================
// pkg/trace/record.go - Raw Log Record Filtering
// =============================================================================
//
// MemeTracker quote dumps are line-oriented: each line starts with a
// record-type tag followed by whitespace-separated fields. Only two record
// types carry keys we care about:
//
//	L <link-url>    - a link record
//	P <post-url>    - a post record
//
// Everything else (T timestamps, Q quote bodies, blank lines, truncated
// lines) is filtered out. Filtering is total: a line is either accepted or
// skipped, it never aborts the stream.
//
// =============================================================================

package trace

import "strings"

// acceptedTags are the record-type tags whose second field is a usable key.
var acceptedTags = map[string]bool{
	"L": true,
	"P": true,
}

// ParseRecord classifies one raw log line.
//
// It returns the raw key token and ok=true when the line has at least two
// whitespace-separated fields and its first field is an accepted record tag.
// Any other line returns ok=false and must be skipped silently.
func ParseRecord(line string) (key string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", false
	}
	if !acceptedTags[fields[0]] {
		return "", false
	}
	return fields[1], true
}
