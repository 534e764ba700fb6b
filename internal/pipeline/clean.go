package pipeline

import (
	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"go.uber.org/zap"
)

// DeveloperURLPlaceholder replaces a missing Developer_Url.
const DeveloperURLPlaceholder = "0"

// CleanStats reports what Clean changed.
type CleanStats struct {
	DroppedWebsite   bool
	DroppedNoName    int
	DroppedNoRelease int
	SizeMedian       float64
	SizeImputed      int
	PriceImputed     int
	URLFilled        int
}

// Clean applies the cleaning rules in their fixed order. Later steps see the
// row set left by earlier ones, so the order must not change.
func Clean(t *dataset.Table) CleanStats {
	var st CleanStats
	log := zap.L()

	st.DroppedWebsite = t.DropColumn(dataset.ColDeveloperWebsite)

	st.DroppedNoName = t.Filter(func(r *dataset.AppRecord) bool { return r.AppName.Valid })
	st.DroppedNoRelease = t.Filter(func(r *dataset.AppRecord) bool { return r.Released.Valid })

	median, ok := Median(t, func(r *dataset.AppRecord) dataset.NullFloat { return r.SizeBytes })
	st.SizeMedian = median
	if ok {
		for _, r := range t.Records {
			if !r.SizeBytes.Valid {
				r.SizeBytes = dataset.Float(median)
				st.SizeImputed++
			}
		}
	} else {
		log.Warn("clean: Size_Bytes has no observed values; nothing imputed")
	}

	// Price is filled from the Size_Bytes median, not its own. Recomputed after
	// the size imputation, which leaves the median unchanged.
	priceFill, ok := Median(t, func(r *dataset.AppRecord) dataset.NullFloat { return r.SizeBytes })
	if ok {
		for _, r := range t.Records {
			if !r.Price.Valid {
				r.Price = dataset.Float(priceFill)
				st.PriceImputed++
			}
		}
	}

	for _, r := range t.Records {
		if !r.DeveloperURL.Valid {
			r.DeveloperURL = dataset.Str(DeveloperURLPlaceholder)
			st.URLFilled++
		}
	}

	log.Info("clean: done",
		zap.Int("rows", t.Len()),
		zap.Int("dropped_no_name", st.DroppedNoName),
		zap.Int("dropped_no_release", st.DroppedNoRelease),
		zap.Float64("size_median", st.SizeMedian),
		zap.Int("size_imputed", st.SizeImputed),
		zap.Int("price_imputed", st.PriceImputed),
		zap.Int("developer_url_filled", st.URLFilled),
	)
	return st
}
