package pipeline

// Content_Rating code to age group label.
var ageGroups = map[string]string{
	"4+":            "The First Childhood",
	"9+":            "The Second Childhood",
	"12+":           "Teens",
	"17+":           "Adults",
	"Not yet rated": "Everyone",
}

// AgeGroup maps a content rating code to its label; ok is false for unknown codes.
func AgeGroup(contentRating string) (string, bool) {
	g, ok := ageGroups[contentRating]
	return g, ok
}

// MaxReviews is the upper bound of the last review tier.
const MaxReviews = 22685334

// ReviewCategory buckets a review count. Counts outside [0, MaxReviews] get "".
func ReviewCategory(reviews int64) string {
	switch {
	case reviews < 0:
		return ""
	case reviews <= 10000:
		return "Less_than_10K"
	case reviews <= 500000:
		return "10K_to_500K"
	case reviews <= 1000000:
		return "500K_to_1000k"
	case reviews <= MaxReviews:
		return "Million_Plus"
	}
	return ""
}

type priceBucket struct {
	upper float64
	label string
}

// Upper-inclusive price buckets above the (0, 0.1] gap.
var priceBuckets = []priceBucket{
	{1, "0_1"},
	{50, "1_50"},
	{100, "50_100"},
	{200, "100_200"},
	{300, "200_300"},
	{400, "300_400"},
	{500, "400_500"},
	{1000, "500_1000"},
}

// PriceRange buckets a price. Prices in (0, 0.1] and negative prices get "".
func PriceRange(price float64) string {
	switch {
	case price == 0:
		return "Free"
	case price <= 0.1:
		return ""
	case price > 1000:
		return "1000+"
	}
	for _, b := range priceBuckets {
		if price <= b.upper {
			return b.label
		}
	}
	return ""
}
