package pipeline

import (
	"errors"
	"math"
	"time"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"go.uber.org/zap"
)

// BytesPerMB is the binary megabyte used for Size_MB.
const BytesPerMB = 1024 * 1024

var dateLayouts = []string{
	time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02T15:04:05", "2006-01-02",
	"2006-01-02 15:04:05", "2006-01-02 15:04", "2006/01/02", "01/02/2006", "1/2/2006",
}

var errMissingRating = errors.New("missing value cannot be cast to integer")

// ParseDate parses the date formats seen in the dataset.
func ParseDate(s string) (time.Time, error) {
	var lastErr error
	for _, l := range dateLayouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Enrich derives Age_Group, Size_MB, Type, ReviewCategory, Release_Year,
// Updated_Year and PriceRange, and rounds Average_User_Rating in place.
// It never removes rows; the first value that cannot be coerced aborts it
// before any row is touched.
func Enrich(t *dataset.Table) error {
	if err := checkEnrich(t); err != nil {
		return err
	}
	undefinedAge := 0
	for _, r := range t.Records {
		if g, ok := AgeGroup(r.ContentRating); ok {
			r.AgeGroup = dataset.Str(g)
		} else {
			r.AgeGroup = dataset.NullString{}
			undefinedAge++
		}

		if r.SizeBytes.Valid {
			r.SizeMB = dataset.Float(r.SizeBytes.Float64 / BytesPerMB)
		} else {
			r.SizeMB = dataset.NullFloat{}
		}

		if r.Free.Valid && r.Free.Bool {
			r.Type = "Free"
		} else {
			r.Type = "Paid"
		}

		r.ReviewCategory = ""
		if r.Reviews.Valid {
			r.ReviewCategory = ReviewCategory(r.Reviews.Int64)
		}

		r.AverageUserRating = dataset.Float(math.RoundToEven(r.AverageUserRating.Float64))
		r.ReleaseYear, _ = yearOf(r.Released)
		r.UpdatedYear, _ = yearOf(r.Updated)

		r.PriceRange = ""
		if r.Price.Valid {
			r.PriceRange = PriceRange(r.Price.Float64)
		}
	}
	t.RatingsRounded = true
	for _, c := range []string{
		dataset.ColAgeGroup, dataset.ColSizeMB, dataset.ColType, dataset.ColReviewCategory,
		dataset.ColReleaseYear, dataset.ColUpdatedYear, dataset.ColPriceRange,
	} {
		t.AddColumn(c)
	}
	zap.L().Info("enrich: done", zap.Int("rows", t.Len()), zap.Int("undefined_age_group", undefinedAge))
	return nil
}

func checkEnrich(t *dataset.Table) error {
	for i, r := range t.Records {
		row := i + 1
		if !r.AverageUserRating.Valid {
			return &dataset.ParseError{Row: row, Column: dataset.ColAverageUserRating, Err: errMissingRating}
		}
		if _, err := yearOf(r.Released); err != nil {
			return &dataset.ParseError{Row: row, Column: dataset.ColReleased, Value: r.Released.String, Err: err}
		}
		if _, err := yearOf(r.Updated); err != nil {
			return &dataset.ParseError{Row: row, Column: dataset.ColUpdated, Value: r.Updated.String, Err: err}
		}
	}
	return nil
}

func yearOf(v dataset.NullString) (dataset.NullString, error) {
	if !v.Valid {
		return dataset.NullString{}, nil
	}
	ts, err := ParseDate(v.String)
	if err != nil {
		return dataset.NullString{}, err
	}
	return dataset.Str(ts.Format("2006")), nil
}
