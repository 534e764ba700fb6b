package report

import (
	"math"
	"sort"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"github.com/KaramelBytes/appscope-cli/internal/pipeline"
)

// Count is one label with its frequency.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Ranked is one row of a top-N view.
type Ranked struct {
	Rank           int     `json:"rank"`
	AppID          string  `json:"app_id"`
	AppName        string  `json:"app_name"`
	PrimaryGenre   string  `json:"primary_genre"`
	ReviewCategory string  `json:"review_category"`
	Metric         float64 `json:"metric"`
}

// GenreType is one (Primary_Genre, Type) pair count.
type GenreType struct {
	Genre string `json:"genre"`
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
}

// ValueCounts counts the present values of col, most frequent first.
// Undefined values are skipped; the empty bucket label of ReviewCategory and
// PriceRange is counted as "".
func ValueCounts(t *dataset.Table, col string) []Count {
	return GroupCount(t, col, 0)
}

// GroupCount counts rows per value of col and keeps the n largest groups (n <= 0 keeps all).
func GroupCount(t *dataset.Table, col string, n int) []Count {
	counts := map[string]int{}
	for _, r := range t.Records {
		v, ok := r.Value(col)
		if !ok {
			continue
		}
		counts[v]++
	}
	return sortCounts(counts, n)
}

func sortCounts(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, Count{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Label < out[j].Label
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopN keeps the rows matching pred, sorts them by the numeric column metric
// descending (ties keep table order) and returns the first n, ranked from 1.
// Rows without a metric value are skipped.
func TopN(t *dataset.Table, pred func(*dataset.AppRecord) bool, metric string, n int) []Ranked {
	type hit struct {
		r *dataset.AppRecord
		v float64
	}
	var hits []hit
	for _, r := range t.Records {
		if pred != nil && !pred(r) {
			continue
		}
		v, ok := r.Numeric(metric)
		if !ok {
			continue
		}
		hits = append(hits, hit{r: r, v: v})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].v > hits[j].v })
	if n > 0 && len(hits) > n {
		hits = hits[:n]
	}
	out := make([]Ranked, len(hits))
	for i, h := range hits {
		out[i] = Ranked{
			Rank:           i + 1,
			AppID:          h.r.AppID,
			AppName:        h.r.AppName.String,
			PrimaryGenre:   h.r.PrimaryGenre,
			ReviewCategory: h.r.ReviewCategory,
			Metric:         h.v,
		}
	}
	return out
}

// CrossTab counts (Primary_Genre, Type) pairs restricted to appType and keeps the n largest.
func CrossTab(t *dataset.Table, appType string, n int) []GenreType {
	counts := map[string]int{}
	for _, r := range t.Records {
		if r.Type != appType || r.PrimaryGenre == "" {
			continue
		}
		counts[r.PrimaryGenre]++
	}
	sorted := sortCounts(counts, n)
	out := make([]GenreType, len(sorted))
	for i, c := range sorted {
		out[i] = GenreType{Genre: c.Label, Type: appType, Count: c.Count}
	}
	return out
}

type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return 0
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 {
		return 0
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// Correlation computes Pearson r over every pair of numeric columns using the
// rows where both values are present. Zero-variance pairs report 0.
func Correlation(t *dataset.Table) *CorrMatrix {
	cols := t.NumericColumns()
	n := len(cols)
	if n == 0 {
		return &CorrMatrix{}
	}
	acc := make([][]pairAcc, n)
	for i := range acc {
		acc[i] = make([]pairAcc, n)
	}
	vals := make([]float64, n)
	have := make([]bool, n)
	for _, r := range t.Records {
		for i, c := range cols {
			vals[i], have[i] = r.Numeric(c)
		}
		for i := 0; i < n; i++ {
			if !have[i] {
				continue
			}
			for j := 0; j < i; j++ {
				if have[j] {
					acc[i][j].add(vals[i], vals[j])
				}
			}
		}
	}
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		mat[i][i] = 1
		for j := 0; j < i; j++ {
			r := acc[i][j].r()
			mat[i][j] = r
			mat[j][i] = r
		}
	}
	return &CorrMatrix{Columns: cols, Values: mat}
}

// NumericSummary is the describe-style summary of one numeric column.
type NumericSummary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	Max   float64 `json:"max"`
}

// Describe summarizes every numeric column over its present values. Columns
// with no present value are left out; Std is the sample standard deviation
// and is 0 for a single value.
func Describe(t *dataset.Table) []NumericSummary {
	var out []NumericSummary
	for _, col := range t.NumericColumns() {
		var (
			n        int
			mean, m2 float64
			vals     []float64
		)
		for _, r := range t.Records {
			x, ok := r.Numeric(col)
			if !ok {
				continue
			}
			// Welford update
			n++
			delta := x - mean
			mean += delta / float64(n)
			m2 += delta * (x - mean)
			vals = append(vals, x)
		}
		if n == 0 {
			continue
		}
		sort.Float64s(vals)
		s := NumericSummary{
			Name:  col,
			Count: n,
			Mean:  mean,
			Min:   vals[0],
			P25:   pipeline.Quantile(vals, 0.25),
			P50:   pipeline.Quantile(vals, 0.5),
			P75:   pipeline.Quantile(vals, 0.75),
			Max:   vals[len(vals)-1],
		}
		if n > 1 {
			s.Std = math.Sqrt(m2 / float64(n-1))
		}
		out = append(out, s)
	}
	return out
}
