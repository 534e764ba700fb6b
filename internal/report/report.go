// Package report computes read-only views over an enriched app table and
// renders them as a compact Markdown summary.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
)

// Options controls the size and filters of the top-N views.
type Options struct {
	// TopReviewsChart is how many top reviewed apps are charted.
	TopReviewsChart int
	// TopReviewsList is how many top reviewed apps are listed.
	TopReviewsList int
	// MillionThreshold is the minimum Reviews for the top reviewed view.
	MillionThreshold int64
	// EducationGenre and TopEducation select the genre top-N view.
	EducationGenre string
	TopEducation   int
	TopDevelopers  int
	CrossTabTop    int
}

// DefaultOptions returns the default view sizes.
func DefaultOptions() Options {
	return Options{
		TopReviewsChart:  10,
		TopReviewsList:   50,
		MillionThreshold: 1000000,
		EducationGenre:   "Education",
		TopEducation:     50,
		TopDevelopers:    10,
		CrossTabTop:      10,
	}
}

// Report bundles every view of an enriched table.
type Report struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`

	Types            []Count `json:"types"`
	AgeGroups        []Count `json:"age_groups"`
	Genres           []Count `json:"genres"`
	PriceRanges      []Count `json:"price_ranges"`
	ReviewCategories []Count `json:"review_categories"`
	ReleaseYears     []Count `json:"release_years"`

	TopReviewed     []Ranked `json:"top_reviewed"`
	TopReviewedList []Ranked `json:"top_reviewed_list"`
	TopGenre        []Ranked `json:"top_genre"`
	GenreName       string   `json:"genre_name"`

	TopDevelopers []Count     `json:"top_developers"`
	PaidByGenre   []GenreType `json:"paid_by_genre"`
	FreeByGenre   []GenreType `json:"free_by_genre"`
	Corr          *CorrMatrix `json:"correlations,omitempty"`

	Numeric []NumericSummary `json:"numeric_summary,omitempty"`

	// Audit is the profile taken before cleaning, when the caller has one.
	Audit *Audit   `json:"audit,omitempty"`
	Notes []string `json:"notes,omitempty"`
}

// Build computes every view over t.
func Build(t *dataset.Table, opt Options) *Report {
	rep := &Report{
		Name:    t.Name,
		Rows:    t.Len(),
		Columns: append([]string(nil), t.Columns...),

		Types:            ValueCounts(t, dataset.ColType),
		AgeGroups:        ValueCounts(t, dataset.ColAgeGroup),
		Genres:           ValueCounts(t, dataset.ColPrimaryGenre),
		PriceRanges:      ValueCounts(t, dataset.ColPriceRange),
		ReviewCategories: ValueCounts(t, dataset.ColReviewCategory),
		ReleaseYears:     ValueCounts(t, dataset.ColReleaseYear),
		GenreName:        opt.EducationGenre,
	}
	popular := func(r *dataset.AppRecord) bool {
		return r.Reviews.Valid && r.Reviews.Int64 >= opt.MillionThreshold
	}
	rep.TopReviewed = TopN(t, popular, dataset.ColReviews, opt.TopReviewsChart)
	rep.TopReviewedList = TopN(t, popular, dataset.ColReviews, opt.TopReviewsList)
	rep.TopGenre = TopN(t, func(r *dataset.AppRecord) bool {
		return r.PrimaryGenre == opt.EducationGenre
	}, dataset.ColReviews, opt.TopEducation)
	rep.TopDevelopers = GroupCount(t, dataset.ColDeveloper, opt.TopDevelopers)
	rep.PaidByGenre = CrossTab(t, "Paid", opt.CrossTabTop)
	rep.FreeByGenre = CrossTab(t, "Free", opt.CrossTabTop)
	rep.Numeric = Describe(t)
	if len(t.NumericColumns()) >= 2 {
		rep.Corr = Correlation(t)
	}
	return rep
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Audit != nil && r.Audit.Rows != r.Rows {
		b.WriteString(fmt.Sprintf("Rows: %d (loaded %d)\n", r.Rows, r.Audit.Rows))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Columns)))

	if r.Audit != nil {
		writeAudit(&b, r.Audit)
	}

	if len(r.Numeric) > 0 {
		b.WriteString("\n[NUMERIC SUMMARY]\n")
		for _, s := range r.Numeric {
			b.WriteString(fmt.Sprintf("- %s: count %d, min %.4g, p25 %.4g, median %.4g, p75 %.4g, max %.4g, mean %.4g, std %.4g\n",
				s.Name, s.Count, s.Min, s.P25, s.P50, s.P75, s.Max, s.Mean, s.Std))
		}
	}

	writeCounts(&b, "TYPE", r.Types)
	writeCounts(&b, "AGE GROUP", r.AgeGroups)
	writeCounts(&b, "PRIMARY GENRE", r.Genres)
	writeCounts(&b, "PRICE RANGE", r.PriceRanges)
	writeCounts(&b, "REVIEW CATEGORY", r.ReviewCategories)
	writeCounts(&b, "RELEASE YEAR", r.ReleaseYears)

	writeRanked(&b, "TOP REVIEWED APPS", r.TopReviewedList)
	if r.GenreName != "" {
		writeRanked(&b, "TOP "+strings.ToUpper(r.GenreName)+" APPS", r.TopGenre)
	}
	writeCounts(&b, "TOP DEVELOPERS", r.TopDevelopers)
	writeGenreTypes(&b, "MOST PAID APPS BY GENRE", r.PaidByGenre)
	writeGenreTypes(&b, "MOST FREE APPS BY GENRE", r.FreeByGenre)

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr.TopPairs(10) {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range r.Notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// TopPairs lists the off-diagonal pairs with the largest |r|.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := abs(pairs[i].R), abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

// Markdown renders the audit alone, as printed by inspect.
func (a *Audit) Markdown(name string) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", a.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(a.Columns)))
	b.WriteString("\n[COLUMNS]\n")
	b.WriteString("| Column | Missing | Unique |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, c := range a.Columns {
		b.WriteString(fmt.Sprintf("| %s | %d | %d |\n", c.Name, c.Missing, c.Unique))
	}
	writeAudit(&b, a)
	return b.String()
}

func writeAudit(b *strings.Builder, a *Audit) {
	b.WriteString("\n[MISSING VALUES BEFORE CLEANING]\n")
	missing := a.MissingCounts()
	if len(missing) == 0 {
		b.WriteString("- (none)\n")
	}
	for _, c := range missing {
		b.WriteString(fmt.Sprintf("- %s: %d\n", c.Label, c.Count))
	}
	b.WriteString(fmt.Sprintf("- duplicate App_Id rows: %d\n", a.DuplicateAppIDs))
	b.WriteString(fmt.Sprintf("- duplicate App_Name rows: %d\n", a.DuplicateAppNames))
}

func writeCounts(b *strings.Builder, title string, counts []Count) {
	if len(counts) == 0 {
		return
	}
	b.WriteString("\n[" + title + "]\n")
	for _, c := range counts {
		b.WriteString(fmt.Sprintf("- %s: %d\n", Label(c.Label), c.Count))
	}
}

func writeRanked(b *strings.Builder, title string, rows []Ranked) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n[" + title + "]\n")
	b.WriteString("| # | App | Genre | Reviews |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("| %d | %s | %s | %.0f |\n", r.Rank, safeVal(r.AppName), safeVal(r.PrimaryGenre), r.Metric))
	}
}

func writeGenreTypes(b *strings.Builder, title string, rows []GenreType) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("\n[" + title + "]\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("- %s (%s): %d\n", safeVal(r.Genre), r.Type, r.Count))
	}
}

// Label returns the display label of a bucket value.
func Label(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(none)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
