package pipeline

import (
	"math"
	"sort"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
)

// Median returns the median of the observed values of a nullable float column.
// ok is false when no value is observed.
func Median(t *dataset.Table, get func(*dataset.AppRecord) dataset.NullFloat) (float64, bool) {
	vals := make([]float64, 0, len(t.Records))
	for _, r := range t.Records {
		if v := get(r); v.Valid {
			vals = append(vals, v.Float64)
		}
	}
	if len(vals) == 0 {
		return math.NaN(), false
	}
	sort.Float64s(vals)
	return Quantile(vals, 0.5), true
}

// Quantile interpolates linearly between the closest ranks of sorted (pandas default).
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
