package sequence

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"commas", "12, 4,8 ,20", []float64{12, 4, 8, 20}},
		{"mixed delimiters", "1;2 3\t4\n5", []float64{1, 2, 3, 4, 5}},
		{"invalid tokens", "3, abc, 7, , x9, 2.5", []float64{3, 7, 2.5}},
		{"non finite", "NaN, 1, Inf, -Inf, 2", []float64{1, 2}},
		{"negative", "-3,-1.5", []float64{-3, -1.5}},
		{"empty", "", []float64{}},
		{"only junk", "a,b,c", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestClean(t *testing.T) {
	in := make([]float64, 25)
	for i := range in {
		in[i] = float64(i)
	}
	out, dropped := Clean(in, MaxLen)
	require.Len(t, out, MaxLen)
	require.Equal(t, 5, dropped)
	require.Equal(t, float64(19), out[19])

	out, dropped = Clean([]float64{1, math.NaN(), 2, math.Inf(1)}, 3)
	require.Equal(t, []float64{1, 2}, out)
	require.Zero(t, dropped)

	out, dropped = Clean([]float64{1, 2, 3}, 0)
	require.Len(t, out, 3)
	require.Zero(t, dropped)
}

func TestRandom(t *testing.T) {
	a := Random(rand.New(rand.NewSource(7)), 12)
	b := Random(rand.New(rand.NewSource(7)), 12)
	require.Equal(t, a, b)
	require.Len(t, a, 12)
	for _, v := range a {
		require.GreaterOrEqual(t, v, float64(minValue))
		require.LessOrEqual(t, v, float64(maxValue))
		require.Equal(t, math.Trunc(v), v)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	values := []float64{12, 4.5, -3, 100}
	require.Equal(t, "12, 4.5, -3, 100", Format(values))
	require.Equal(t, values, Parse(Format(values)))
}

func TestInversions(t *testing.T) {
	require.Equal(t, 20, Inversions([]float64{12, 4, 8, 20, 1, 15, 7, 3, 10}))
	require.Zero(t, Inversions([]float64{1, 2, 3}))
	require.Equal(t, 3, Inversions([]float64{3, 2, 1}))
	require.Zero(t, Inversions(nil))
}
