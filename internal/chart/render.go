package chart

import (
	"fmt"

	"github.com/KaramelBytes/appscope-cli/internal/report"
	"github.com/rotisserie/eris"
)

func countSeries(title string, counts []report.Count) Series {
	s := Series{Title: title, Labels: make([]string, len(counts)), Values: make([]float64, len(counts))}
	for i, c := range counts {
		s.Labels[i] = report.Label(c.Label)
		s.Values[i] = float64(c.Count)
	}
	return s
}

func rankedSeries(title string, rows []report.Ranked) Series {
	s := Series{Title: title, Labels: make([]string, len(rows)), Values: make([]float64, len(rows))}
	for i, r := range rows {
		s.Labels[i] = r.AppName
		s.Values[i] = r.Metric
	}
	return s
}

func genreSeries(title string, rows []report.GenreType) Series {
	s := Series{Title: title, Labels: make([]string, len(rows)), Values: make([]float64, len(rows))}
	for i, r := range rows {
		s.Labels[i] = r.Genre
		s.Values[i] = float64(r.Count)
	}
	return s
}

// Render draws every view of rep onto sink and flushes it. Empty views are skipped.
func Render(rep *report.Report, sink Sink) error {
	type draw struct {
		fn func(Series) error
		s  Series
	}
	var draws []draw
	add := func(fn func(Series) error, s Series) {
		if len(s.Values) > 0 {
			draws = append(draws, draw{fn: fn, s: s})
		}
	}
	if rep.Audit != nil {
		add(sink.HorizontalBar, countSeries("Missing values before cleaning", rep.Audit.MissingCounts()))
	}
	add(sink.Bar, countSeries("Free and paid apps", rep.Types))
	add(sink.HorizontalBar, countSeries("Content rating with their counts", rep.AgeGroups))
	add(sink.HorizontalBar, countSeries("The number of categories", rep.Genres))
	add(sink.Bar, countSeries("Price ranges", rep.PriceRanges))
	add(sink.Bar, countSeries("Review categories", rep.ReviewCategories))
	add(sink.Bar, rankedSeries(fmt.Sprintf("Top %d apps by reviews", len(rep.TopReviewed)), rep.TopReviewed))
	add(sink.Bar, countSeries("App counts per year", rep.ReleaseYears))
	add(sink.Bar, rankedSeries(fmt.Sprintf("Top %d %s apps by reviews", len(rep.TopGenre), rep.GenreName), rep.TopGenre))
	add(sink.Pie, countSeries("Developers with the most apps", rep.TopDevelopers))
	add(sink.Bar, genreSeries("Categories with the most paid apps", rep.PaidByGenre))
	add(sink.Bar, genreSeries("Categories with the most free apps", rep.FreeByGenre))

	for _, d := range draws {
		if err := d.fn(d.s); err != nil {
			return eris.Wrapf(err, "chart: draw %q", d.s.Title)
		}
	}
	if rep.Corr != nil && len(rep.Corr.Columns) >= 2 {
		g := Grid{Title: "Correlation of numeric attributes", Labels: rep.Corr.Columns, Values: rep.Corr.Values}
		if err := sink.HeatMap(g); err != nil {
			return eris.Wrap(err, "chart: draw correlation heatmap")
		}
	}
	return sink.Flush()
}
