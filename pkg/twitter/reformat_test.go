package twitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReformatOpMapping(t *testing.T) {
	in := strings.Join([]string{
		"0,keyA,4,30,1,get,7200",
		"1,keyB,4,30,1,gets,7200",
		"2,keyC,4,30,1,set,7200",
		"3,keyD,4,30,1,replace,7200",
		"4,keyE,4,30,1,cas,7200",
		"5,keyF,4,30,1,add,7200",
		"6,keyG,4,30,1,append,7200",
		"7,keyH,4,30,1,prepend,7200",
		"8,keyI,4,30,1,incr,7200",
		"9,keyJ,4,30,1,decr,7200",
		"10,keyK,4,30,1,delete,7200",
	}, "\n") + "\n"

	var out strings.Builder
	lines, err := Reformat(strings.NewReader(in), &out)
	require.NoError(t, err)
	require.Equal(t, int64(11), lines)

	want := []string{
		"g keyA", "g keyB", "p keyC", "p keyD", "p keyE", "p keyF",
		"p keyG", "p keyH", "p keyI", "p keyJ", "d keyK",
	}
	require.Equal(t, want, strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"))
}

func TestReformatCommaInKey(t *testing.T) {
	// The anonymized key itself contains commas: the non-numeric fields
	// following the key position are re-joined to it.
	in := "0,ab,cd,ef,22,30,1,get,7200\n"

	var out strings.Builder
	_, err := Reformat(strings.NewReader(in), &out)
	require.NoError(t, err)
	require.Equal(t, "g ab,cd,ef\n", out.String())
}

func TestReformatUnknownOp(t *testing.T) {
	in := "0,keyA,4,30,1,frobnicate,7200\n"

	var out strings.Builder
	_, err := Reformat(strings.NewReader(in), &out)
	require.Error(t, err)
	require.Contains(t, err.Error(), "frobnicate")
}

func TestReformatTooFewFields(t *testing.T) {
	var out strings.Builder
	_, err := Reformat(strings.NewReader("0,keyA,4\n"), &out)
	require.Error(t, err)
}

func TestReformatExampleLine(t *testing.T) {
	in := "0,Nz_ztinzCiiCmiKCzizKQi,22,30,1,add,7200\n"

	var out strings.Builder
	lines, err := Reformat(strings.NewReader(in), &out)
	require.NoError(t, err)
	require.Equal(t, int64(1), lines)
	require.Equal(t, "p Nz_ztinzCiiCmiKCzizKQi\n", out.String())
}
