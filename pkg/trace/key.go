// =============================================================================
// pkg/trace/key.go - Key Normalization
// =============================================================================
//
// The index binaries fed by these traces require uniform-length keys. Raw
// keys (quote URLs, anonymized cache keys) have variable length, so every
// key is right-padded with '/' to a fixed width before it is written to any
// output file.
//
// A raw key longer than the configured width is a configuration violation,
// not data to be repaired: truncating would silently merge distinct keys and
// corrupt the trace, so padding fails fast instead.
//
// =============================================================================

package trace

import (
	"strings"

	"github.com/pkg/errors"
)

// FillerChar is the padding character appended to raw keys.
const FillerChar = "/"

// ErrKeyTooLong is returned when a raw key exceeds the configured key width.
var ErrKeyTooLong = errors.New("raw key longer than configured key width")

// PadKey returns raw right-padded with FillerChar to exactly width bytes.
//
// The returned key always satisfies len(key) == width, and its prefix before
// the padding equals raw. If len(raw) > width, ErrKeyTooLong is returned
// (wrapped with the offending key) and the caller must abort the run.
func PadKey(raw string, width int) (string, error) {
	if len(raw) > width {
		return "", errors.Wrapf(ErrKeyTooLong, "key %q has %d bytes, width is %d", raw, len(raw), width)
	}
	if len(raw) == width {
		return raw, nil
	}
	return raw + strings.Repeat(FillerChar, width-len(raw)), nil
}
