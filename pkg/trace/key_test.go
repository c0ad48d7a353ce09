package trace

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestPadKey(t *testing.T) {
	key, err := PadKey("abc", 5)
	require.NoError(t, err)
	require.Equal(t, "abc//", key)
	require.Len(t, key, 5)
	require.True(t, strings.HasPrefix(key, "abc"))
}

func TestPadKeyExactWidth(t *testing.T) {
	key, err := PadKey("abcde", 5)
	require.NoError(t, err)
	require.Equal(t, "abcde", key)
}

func TestPadKeyEmpty(t *testing.T) {
	key, err := PadKey("", 4)
	require.NoError(t, err)
	require.Equal(t, "////", key)
}

func TestPadKeyTooLong(t *testing.T) {
	_, err := PadKey("abcdef", 5)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrKeyTooLong))
}

func TestPadKeyWidths(t *testing.T) {
	for width := 1; width <= 128; width *= 2 {
		raw := strings.Repeat("x", width/2)
		key, err := PadKey(raw, width)
		require.NoError(t, err)
		require.Len(t, key, width)
		require.Equal(t, raw, key[:len(raw)])
		require.Equal(t, strings.Repeat(FillerChar, width-len(raw)), key[len(raw):])
	}
}
