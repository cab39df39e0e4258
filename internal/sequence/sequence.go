// Package sequence builds input sequences for the visualizers: parsing user
// text, generating random values and enforcing the length cap.
package sequence

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
)

const (
	// MaxLen is the default cap on the number of elements.
	MaxLen = 20
	// MinRandom is the smallest random sequence generated.
	MinRandom = 5

	minValue = 1
	maxValue = 100
)

func isDelimiter(r rune) bool {
	switch r {
	case ',', ';', ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// Parse splits text on commas, semicolons or whitespace and returns every
// token that parses as a finite number. Other tokens are skipped.
func Parse(text string) []float64 {
	fields := strings.FieldsFunc(text, isDelimiter)
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Clean drops non-finite values and truncates to max elements. It returns
// the kept values and how many finite values were cut by the cap.
func Clean(values []float64, max int) ([]float64, int) {
	if max <= 0 {
		max = MaxLen
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	if len(out) > max {
		return out[:max], len(out) - max
	}
	return out, 0
}

// Random returns n integers drawn uniformly from [1,100].
func Random(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(rng.Intn(maxValue-minValue+1) + minValue)
	}
	return out
}

// Format renders values as a comma separated list, the inverse of Parse.
func Format(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// Inversions counts pairs i<j with values[i] > values[j].
func Inversions(values []float64) int {
	n := 0
	for i := range values {
		for j := i + 1; j < len(values); j++ {
			if values[i] > values[j] {
				n++
			}
		}
	}
	return n
}
