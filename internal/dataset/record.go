package dataset

// Source column names.
const (
	ColAppID                 = "App_Id"
	ColAppName               = "App_Name"
	ColAppStoreURL           = "AppStore_Url"
	ColPrimaryGenre          = "Primary_Genre"
	ColContentRating         = "Content_Rating"
	ColSizeBytes             = "Size_Bytes"
	ColRequiredIOSVersion    = "Required_IOS_Version"
	ColReleased              = "Released"
	ColUpdated               = "Updated"
	ColVersion               = "Version"
	ColPrice                 = "Price"
	ColCurrency              = "Currency"
	ColFree                  = "Free"
	ColDeveloperID           = "DeveloperId"
	ColDeveloper             = "Developer"
	ColDeveloperURL          = "Developer_Url"
	ColDeveloperWebsite      = "Developer_Website"
	ColAverageUserRating     = "Average_User_Rating"
	ColReviews               = "Reviews"
	ColCurrentVersionScore   = "Current_Version_Score"
	ColCurrentVersionReviews = "Current_Version_Reviews"
)

// Derived column names added by the enricher.
const (
	ColAgeGroup       = "Age_Group"
	ColSizeMB         = "Size_MB"
	ColType           = "Type"
	ColReviewCategory = "ReviewCategory"
	ColReleaseYear    = "Release_Year"
	ColUpdatedYear    = "Updated_Year"
	ColPriceRange     = "PriceRange"
)

// RequiredColumns lists the header every input file must carry, in dataset order.
var RequiredColumns = []string{
	ColAppID, ColAppName, ColAppStoreURL, ColPrimaryGenre, ColContentRating,
	ColSizeBytes, ColRequiredIOSVersion, ColReleased, ColUpdated, ColVersion,
	ColPrice, ColCurrency, ColFree, ColDeveloperID, ColDeveloper, ColDeveloperURL,
	ColDeveloperWebsite, ColAverageUserRating, ColReviews, ColCurrentVersionScore,
	ColCurrentVersionReviews,
}

// AppRecord is one application row. Source fields are filled by the loader;
// derived fields stay zero until the enricher runs.
type AppRecord struct {
	AppID                 string
	AppName               NullString
	AppStoreURL           string
	PrimaryGenre          string
	ContentRating         string
	SizeBytes             NullFloat
	RequiredIOSVersion    string
	Released              NullString
	Updated               NullString
	Version               string
	Price                 NullFloat
	Currency              string
	Free                  NullBool
	DeveloperID           string
	Developer             string
	DeveloperURL          NullString
	DeveloperWebsite      NullString
	AverageUserRating     NullFloat
	Reviews               NullInt
	CurrentVersionScore   NullFloat
	CurrentVersionReviews NullInt

	// AgeGroup is invalid when Content_Rating is not a known code.
	AgeGroup       NullString
	SizeMB         NullFloat
	Type           string
	ReviewCategory string
	ReleaseYear    NullString
	UpdatedYear    NullString
	PriceRange     string
}

// Table is the in-memory dataset threaded through the pipeline.
type Table struct {
	Name    string
	Columns []string
	Records []*AppRecord
	// RatingsRounded is set once Average_User_Rating holds integers.
	RatingsRounded bool
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Records) }

// HasColumn reports whether name is a live column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a derived column name if it is not present yet.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// DropColumn removes a column from the table. Only Developer_Website can be
// dropped; its field is cleared on every record.
func (t *Table) DropColumn(name string) bool {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.Columns = append(t.Columns[:idx], t.Columns[idx+1:]...)
	if name == ColDeveloperWebsite {
		for _, r := range t.Records {
			r.DeveloperWebsite = NullString{}
		}
	}
	return true
}

// Filter keeps the rows for which keep returns true and reports how many were removed.
func (t *Table) Filter(keep func(*AppRecord) bool) int {
	out := t.Records[:0]
	for _, r := range t.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	removed := len(t.Records) - len(out)
	for i := len(out); i < len(t.Records); i++ {
		t.Records[i] = nil
	}
	t.Records = out
	return removed
}

// Value returns the display value of a column for r and whether it is present.
func (r *AppRecord) Value(col string) (string, bool) {
	switch col {
	case ColAppID:
		return r.AppID, r.AppID != ""
	case ColAppName:
		return r.AppName.String, r.AppName.Valid
	case ColAppStoreURL:
		return r.AppStoreURL, r.AppStoreURL != ""
	case ColPrimaryGenre:
		return r.PrimaryGenre, r.PrimaryGenre != ""
	case ColContentRating:
		return r.ContentRating, r.ContentRating != ""
	case ColSizeBytes:
		return r.SizeBytes.Format(), r.SizeBytes.Valid
	case ColRequiredIOSVersion:
		return r.RequiredIOSVersion, r.RequiredIOSVersion != ""
	case ColReleased:
		return r.Released.String, r.Released.Valid
	case ColUpdated:
		return r.Updated.String, r.Updated.Valid
	case ColVersion:
		return r.Version, r.Version != ""
	case ColPrice:
		return r.Price.Format(), r.Price.Valid
	case ColCurrency:
		return r.Currency, r.Currency != ""
	case ColFree:
		if !r.Free.Valid {
			return "", false
		}
		if r.Free.Bool {
			return "True", true
		}
		return "False", true
	case ColDeveloperID:
		return r.DeveloperID, r.DeveloperID != ""
	case ColDeveloper:
		return r.Developer, r.Developer != ""
	case ColDeveloperURL:
		return r.DeveloperURL.String, r.DeveloperURL.Valid
	case ColDeveloperWebsite:
		return r.DeveloperWebsite.String, r.DeveloperWebsite.Valid
	case ColAverageUserRating:
		return r.AverageUserRating.Format(), r.AverageUserRating.Valid
	case ColReviews:
		return r.Reviews.Format(), r.Reviews.Valid
	case ColCurrentVersionScore:
		return r.CurrentVersionScore.Format(), r.CurrentVersionScore.Valid
	case ColCurrentVersionReviews:
		return r.CurrentVersionReviews.Format(), r.CurrentVersionReviews.Valid
	case ColAgeGroup:
		return r.AgeGroup.String, r.AgeGroup.Valid
	case ColSizeMB:
		return r.SizeMB.Format(), r.SizeMB.Valid
	case ColType:
		return r.Type, r.Type != ""
	case ColReviewCategory:
		return r.ReviewCategory, true
	case ColReleaseYear:
		return r.ReleaseYear.String, r.ReleaseYear.Valid
	case ColUpdatedYear:
		return r.UpdatedYear.String, r.UpdatedYear.Valid
	case ColPriceRange:
		return r.PriceRange, true
	}
	return "", false
}

// Numeric returns the numeric value of a numeric column for r.
func (r *AppRecord) Numeric(col string) (float64, bool) {
	switch col {
	case ColSizeBytes:
		return r.SizeBytes.Float64, r.SizeBytes.Valid
	case ColPrice:
		return r.Price.Float64, r.Price.Valid
	case ColAverageUserRating:
		return r.AverageUserRating.Float64, r.AverageUserRating.Valid
	case ColReviews:
		return float64(r.Reviews.Int64), r.Reviews.Valid
	case ColCurrentVersionScore:
		return r.CurrentVersionScore.Float64, r.CurrentVersionScore.Valid
	case ColCurrentVersionReviews:
		return float64(r.CurrentVersionReviews.Int64), r.CurrentVersionReviews.Valid
	case ColSizeMB:
		return r.SizeMB.Float64, r.SizeMB.Valid
	}
	return 0, false
}

// NumericColumns lists the numeric columns in table order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.Columns {
		switch c {
		case ColSizeBytes, ColPrice, ColAverageUserRating, ColReviews,
			ColCurrentVersionScore, ColCurrentVersionReviews, ColSizeMB:
			out = append(out, c)
		}
	}
	return out
}
