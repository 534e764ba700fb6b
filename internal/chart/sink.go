// Package chart turns report views into static charts through a Sink.
package chart

// Kind names the chart shape.
type Kind string

const (
	KindBar           Kind = "bar"
	KindHorizontalBar Kind = "hbar"
	KindPie           Kind = "pie"
	KindHeatMap       Kind = "heatmap"
)

// Series is a labelled one-dimensional series.
type Series struct {
	Title  string
	Labels []string
	Values []float64
}

// Grid is a labelled square matrix, e.g. a correlation matrix.
type Grid struct {
	Title  string
	Labels []string
	Values [][]float64
}

// Sink accepts charts and produces them on Flush. Implementations do not keep
// figures after Flush returns.
type Sink interface {
	Bar(s Series) error
	HorizontalBar(s Series) error
	Pie(s Series) error
	HeatMap(g Grid) error
	Flush() error
}

// Drawn is one chart captured by a Recorder.
type Drawn struct {
	Kind   Kind
	Series Series
	Grid   Grid
}

// Recorder keeps charts in memory. It backs tests and the "none" chart format.
type Recorder struct {
	Charts  []Drawn
	Flushed bool
}

func (r *Recorder) Bar(s Series) error {
	r.Charts = append(r.Charts, Drawn{Kind: KindBar, Series: s})
	return nil
}

func (r *Recorder) HorizontalBar(s Series) error {
	r.Charts = append(r.Charts, Drawn{Kind: KindHorizontalBar, Series: s})
	return nil
}

func (r *Recorder) Pie(s Series) error {
	r.Charts = append(r.Charts, Drawn{Kind: KindPie, Series: s})
	return nil
}

func (r *Recorder) HeatMap(g Grid) error {
	r.Charts = append(r.Charts, Drawn{Kind: KindHeatMap, Grid: g})
	return nil
}

func (r *Recorder) Flush() error {
	r.Flushed = true
	return nil
}

// Titles lists the recorded chart titles in draw order.
func (r *Recorder) Titles() []string {
	out := make([]string, 0, len(r.Charts))
	for _, c := range r.Charts {
		if c.Kind == KindHeatMap {
			out = append(out, c.Grid.Title)
			continue
		}
		out = append(out, c.Series.Title)
	}
	return out
}
