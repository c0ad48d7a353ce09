package trace

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		line    string
		wantKey string
		wantOK  bool
	}{
		{"L http://example.com/a", "http://example.com/a", true},
		{"P http://example.com/b", "http://example.com/b", true},
		{"L key extra fields here", "key", true},
		{"  L   key  ", "key", true},
		{"X key", "", false},
		{"Q some quoted phrase", "", false},
		{"T 2009-04-01 00:00:00", "", false},
		{"L", "", false},
		{"", "", false},
		{"   ", "", false},
		{"l lowercase-tag", "", false},
	}

	for _, tt := range tests {
		key, ok := ParseRecord(tt.line)
		require.Equal(t, tt.wantOK, ok, "line %q", tt.line)
		require.Equal(t, tt.wantKey, key, "line %q", tt.line)
	}
}
