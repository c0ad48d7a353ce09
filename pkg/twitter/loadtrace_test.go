package twitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMakeLoadTraceDeduplicates(t *testing.T) {
	in := strings.Join([]string{
		"g keyA",
		"p keyB",
		"g keyA",
		"d keyC",
		"p keyB",
	}, "\n") + "\n"

	var out strings.Builder
	unique, err := MakeLoadTrace(strings.NewReader(in), &out, 100)
	require.NoError(t, err)
	require.Equal(t, int64(3), unique)
	require.Equal(t, "keyA\nkeyB\nkeyC\n", out.String())
}

func TestMakeLoadTraceHonorsTableSize(t *testing.T) {
	in := strings.Join([]string{
		"g keyA",
		"g keyB",
		"g keyC",
		"g keyD",
	}, "\n") + "\n"

	var out strings.Builder
	unique, err := MakeLoadTrace(strings.NewReader(in), &out, 2)
	require.NoError(t, err)
	require.Equal(t, int64(2), unique)
	require.Equal(t, "keyA\nkeyB\n", out.String())
}

func TestMakeLoadTraceShortInput(t *testing.T) {
	var out strings.Builder
	unique, err := MakeLoadTrace(strings.NewReader("g keyA\n"), &out, 1000)
	require.NoError(t, err)
	require.Equal(t, int64(1), unique)
	require.Equal(t, "keyA\n", out.String())
}
