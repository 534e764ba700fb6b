package chart

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotisserie/eris"

	"github.com/KaramelBytes/appscope-cli/internal/utils"
)

// HTML renders every chart onto one go-echarts page written to Path on Flush.
type HTML struct {
	Path   string
	Title  string
	charts []components.Charter
}

// NewHTML returns a sink that writes an HTML page to path.
func NewHTML(path, title string) *HTML {
	return &HTML{Path: path, Title: title}
}

func title(t string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{Title: t})
}

func barData(values []float64) []opts.BarData {
	out := make([]opts.BarData, len(values))
	for i, v := range values {
		out[i] = opts.BarData{Value: v}
	}
	return out
}

func (h *HTML) Bar(s Series) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(title(s.Title))
	bar.SetXAxis(s.Labels).AddSeries("count", barData(s.Values))
	h.charts = append(h.charts, bar)
	return nil
}

func (h *HTML) HorizontalBar(s Series) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(title(s.Title))
	bar.SetXAxis(s.Labels).AddSeries("count", barData(s.Values))
	bar.XYReversal()
	h.charts = append(h.charts, bar)
	return nil
}

func (h *HTML) Pie(s Series) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(title(s.Title))
	items := make([]opts.PieData, len(s.Values))
	for i, v := range s.Values {
		items[i] = opts.PieData{Name: s.Labels[i], Value: v}
	}
	pie.AddSeries("share", items)
	h.charts = append(h.charts, pie)
	return nil
}

func (h *HTML) HeatMap(g Grid) error {
	if len(g.Values) != len(g.Labels) {
		return eris.Errorf("chart: heatmap %q has %d rows for %d labels", g.Title, len(g.Values), len(g.Labels))
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		title(g.Title),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: g.Labels}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: -1, Max: 1}),
	)
	var cells []opts.HeatMapData
	for i, row := range g.Values {
		for j, v := range row {
			cells = append(cells, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}
	hm.SetXAxis(g.Labels).AddSeries("r", cells)
	h.charts = append(h.charts, hm)
	return nil
}

// Flush renders the page atomically and releases the charts.
func (h *HTML) Flush() error {
	page := components.NewPage()
	if h.Title != "" {
		page.PageTitle = h.Title
	}
	page.AddCharts(h.charts...)
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return eris.Wrap(err, "chart: render page")
	}
	if err := utils.SafeWriteFile(h.Path, buf.Bytes()); err != nil {
		return eris.Wrapf(err, "chart: write %s", h.Path)
	}
	h.charts = nil
	return nil
}
