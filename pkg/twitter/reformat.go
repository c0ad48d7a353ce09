// =============================================================================
// pkg/twitter/reformat.go - Twitter Cache Trace Reformatting
// =============================================================================
//
// The production Twitter cache traces are CSV:
//
//	timestamp,anonymized_key,key_size,value_size,client_id,operation,TTL
//	0,Nz_ztinzCiiCmiKCzizKQi,22,30,1,add,7200
//
// The benchmark drivers consume "operation key" lines instead, with the
// memcached operation vocabulary collapsed to three codes:
//
//	get/gets                                        -> g
//	set/replace/cas/add/append/prepend/incr/decr    -> p
//	delete                                          -> d
//
// Anonymized keys may themselves contain commas. The key_size field that
// follows the key is always numeric, so a non-numeric field in the key_size
// position is really the tail of the key and is re-joined to it.
//
// =============================================================================

package twitter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// field positions in a reformatted logical record.
const (
	fieldKey     = 1
	fieldKeySize = 2
	fieldOp      = 5
)

// opCodes maps Twitter cache operations to trace operation codes.
var opCodes = map[string]byte{
	"get":     'g',
	"gets":    'g',
	"set":     'p',
	"replace": 'p',
	"cas":     'p',
	"add":     'p',
	"append":  'p',
	"prepend": 'p',
	"incr":    'p',
	"decr":    'p',
	"delete":  'd',
}

// Reformat converts a Twitter cache trace from in to "op key" lines on out.
// It returns the number of lines written. An unrecognized operation aborts
// the conversion: it means the input is not the expected trace format.
func Reformat(in io.Reader, out io.Writer) (int64, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	w := bufio.NewWriter(out)

	var lines int64
	for scanner.Scan() {
		line := scanner.Text()
		op, key, err := reformatLine(line)
		if err != nil {
			return lines, errors.Wrapf(err, "line %d: %q", lines+1, line)
		}
		if _, err := fmt.Fprintf(w, "%c %s\n", op, key); err != nil {
			return lines, errors.Wrap(err, "failed to write reformatted line")
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		return lines, errors.Wrap(err, "failed to read trace")
	}
	return lines, w.Flush()
}

// reformatLine extracts the operation code and key from one CSV trace line.
func reformatLine(line string) (op byte, key string, err error) {
	fields := strings.Split(line, ",")

	// idx is the logical field position; it does not advance for key
	// fragments, so the operation field lands at the same logical position
	// whether or not the key contained commas.
	idx := 0
	for _, tok := range fields {
		switch {
		case idx == fieldKey:
			key = tok
		case idx == fieldKeySize && !isNumber(tok):
			key += "," + tok
			continue
		case idx == fieldOp:
			code, ok := opCodes[tok]
			if !ok {
				return 0, "", fmt.Errorf("unrecognized operation %q", tok)
			}
			return code, key, nil
		}
		idx++
	}
	return 0, "", fmt.Errorf("too few fields (%d)", len(fields))
}

// isNumber reports whether s consists only of ASCII digits.
func isNumber(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
