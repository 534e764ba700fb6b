package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// csvRow renders one data row in RequiredColumns order; cols not in vals are empty.
func csvRow(vals map[string]string, sep string) string {
	cells := make([]string, len(RequiredColumns))
	for i, c := range RequiredColumns {
		cells[i] = vals[c]
	}
	return strings.Join(cells, sep)
}

func sampleRow() map[string]string {
	return map[string]string{
		ColAppID:                 "com.example.notes",
		ColAppName:               "Notes Plus",
		ColAppStoreURL:           "https://apps.apple.com/us/app/notes/id1",
		ColPrimaryGenre:          "Productivity",
		ColContentRating:         "4+",
		ColSizeBytes:             "21839872",
		ColRequiredIOSVersion:    "12.0",
		ColReleased:              "2017-09-28T03:02:41Z",
		ColUpdated:               "2018-12-21T21:30:36Z",
		ColVersion:               "1.1.2",
		ColPrice:                 "0.0",
		ColCurrency:              "USD",
		ColFree:                  "True",
		ColDeveloperID:           "1283580000",
		ColDeveloper:             "Example Labs",
		ColDeveloperURL:          "https://apps.apple.com/us/developer/id1",
		ColDeveloperWebsite:      "https://example.com",
		ColAverageUserRating:     "4.5",
		ColReviews:               "120",
		ColCurrentVersionScore:   "4.5",
		ColCurrentVersionReviews: "120.0",
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV_TypedRecord(t *testing.T) {
	body := strings.Join(RequiredColumns, ",") + "\n" + csvRow(sampleRow(), ",") + "\n"
	p := writeFile(t, "apps.csv", body)

	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "apps.csv", tbl.Name)
	assert.Equal(t, RequiredColumns, tbl.Columns)
	require.Equal(t, 1, tbl.Len())

	r := tbl.Records[0]
	assert.Equal(t, "com.example.notes", r.AppID)
	assert.Equal(t, Str("Notes Plus"), r.AppName)
	assert.Equal(t, Float(21839872), r.SizeBytes)
	assert.Equal(t, Float(0), r.Price)
	assert.Equal(t, Bool(true), r.Free)
	assert.Equal(t, Float(4.5), r.AverageUserRating)
	assert.Equal(t, Int(120), r.Reviews)
	assert.Equal(t, Int(120), r.CurrentVersionReviews)
	assert.Equal(t, Str("2017-09-28T03:02:41Z"), r.Released)
	assert.False(t, tbl.RatingsRounded)
}

func TestLoadCSV_NATokensAreMissing(t *testing.T) {
	row := sampleRow()
	row[ColAppName] = "NA"
	row[ColSizeBytes] = ""
	row[ColPrice] = "NaN"
	row[ColDeveloperURL] = "null"
	row[ColReviews] = "N/A"
	body := strings.Join(RequiredColumns, ",") + "\n" + csvRow(row, ",") + "\n"
	p := writeFile(t, "apps.csv", body)

	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	r := tbl.Records[0]
	assert.False(t, r.AppName.Valid)
	assert.False(t, r.SizeBytes.Valid)
	assert.False(t, r.Price.Valid)
	assert.False(t, r.DeveloperURL.Valid)
	assert.False(t, r.Reviews.Valid)
}

func TestLoadCSV_HeaderTrimAndColumnOrder(t *testing.T) {
	// Reverse the header order and pad names with spaces and a BOM.
	cols := make([]string, len(RequiredColumns))
	vals := make([]string, len(RequiredColumns))
	row := sampleRow()
	for i := range RequiredColumns {
		c := RequiredColumns[len(RequiredColumns)-1-i]
		cols[i] = " " + c + " "
		vals[i] = row[c]
	}
	cols[0] = "\ufeff" + cols[0]
	body := strings.Join(cols, ",") + "\n" + strings.Join(vals, ",") + "\n"
	p := writeFile(t, "apps.csv", body)

	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Example Labs", tbl.Records[0].Developer)
	assert.Equal(t, Int(120), tbl.Records[0].Reviews)
}

func TestLoadCSV_TSVAndExplicitDelimiter(t *testing.T) {
	body := strings.Join(RequiredColumns, "\t") + "\n" + csvRow(sampleRow(), "\t") + "\n"
	p := writeFile(t, "apps.tsv", body)
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	body = strings.Join(RequiredColumns, ";") + "\n" + csvRow(sampleRow(), ";") + "\n"
	p = writeFile(t, "apps.csv", body)
	tbl, err = Load(p, LoadOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, "Productivity", tbl.Records[0].PrimaryGenre)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	var fe *FileAccessError
	require.True(t, errors.As(err, &fe), "got %v", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadCSV_MissingColumns(t *testing.T) {
	var cols []string
	for _, c := range RequiredColumns {
		if c == ColReviews || c == ColAppName {
			continue
		}
		cols = append(cols, c)
	}
	p := writeFile(t, "apps.csv", strings.Join(cols, ",")+"\n")
	_, err := Load(p, LoadOptions{})
	var se *SchemaError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, []string{ColAppName, ColReviews}, se.Missing)
	assert.Contains(t, err.Error(), "App_Name, Reviews")
}

func TestLoadCSV_EmptyFile(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	_, err := Load(p, LoadOptions{})
	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Len(t, se.Missing, len(RequiredColumns))
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	p := writeFile(t, "apps.csv", strings.Join(RequiredColumns, ",")+"\n")
	tbl, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoadCSV_ParseErrorNamesRowAndColumn(t *testing.T) {
	bad := sampleRow()
	bad[ColSizeBytes] = "twelve"
	body := strings.Join(RequiredColumns, ",") + "\n" + csvRow(sampleRow(), ",") + "\n" + csvRow(bad, ",") + "\n"
	p := writeFile(t, "apps.csv", body)

	_, err := Load(p, LoadOptions{})
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, 2, pe.Row)
	assert.Equal(t, ColSizeBytes, pe.Column)
	assert.Equal(t, "twelve", pe.Value)
}

func TestLoadCSV_FractionalReviewsRejected(t *testing.T) {
	bad := sampleRow()
	bad[ColReviews] = "12.5"
	body := strings.Join(RequiredColumns, ",") + "\n" + csvRow(bad, ",") + "\n"
	_, err := Load(writeFile(t, "apps.csv", body), LoadOptions{})
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ColReviews, pe.Column)
}

func writeXLSX(t *testing.T, sheets map[string][][]string, order []string) string {
	t.Helper()
	f := xlsx.NewFile()
	for _, name := range order {
		sh, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, row := range sheets[name] {
			r := sh.AddRow()
			for _, v := range row {
				r.AddCell().SetString(v)
			}
		}
	}
	p := filepath.Join(t.TempDir(), "apps.xlsx")
	require.NoError(t, f.Save(p))
	return p
}

func xlsxRow(vals map[string]string) []string {
	out := make([]string, len(RequiredColumns))
	for i, c := range RequiredColumns {
		out[i] = vals[c]
	}
	return out
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	second := sampleRow()
	second[ColAppName] = "Second Sheet App"
	p := writeXLSX(t, map[string][][]string{
		"Notes": {{"just", "notes"}},
		"Apps":  {RequiredColumns, xlsxRow(second)},
	}, []string{"Notes", "Apps"})

	tbl, err := Load(p, LoadOptions{SheetName: "Apps"})
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, Str("Second Sheet App"), tbl.Records[0].AppName)
	assert.Equal(t, Int(120), tbl.Records[0].Reviews)

	tbl, err = Load(p, LoadOptions{SheetIndex: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(p, LoadOptions{SheetIndex: 0})
	var se *SchemaError
	require.True(t, errors.As(err, &se))

	_, err = Load(p, LoadOptions{SheetName: "Missing"})
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Error(), "Apps")

	_, err = Load(p, LoadOptions{SheetIndex: 5})
	require.True(t, errors.As(err, &se))
}

func TestLoadXLSX_MatchesCSV(t *testing.T) {
	vals := sampleRow()
	csvPath := writeFile(t, "apps.csv", strings.Join(RequiredColumns, ",")+"\n"+csvRow(vals, ",")+"\n")
	xlsxPath := writeXLSX(t, map[string][][]string{
		"Apps": {RequiredColumns, xlsxRow(vals)},
	}, []string{"Apps"})

	fromCSV, err := Load(csvPath, LoadOptions{})
	require.NoError(t, err)
	fromXLSX, err := Load(xlsxPath, LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, fromCSV.Columns, fromXLSX.Columns)
	require.Equal(t, 1, fromXLSX.Len())
	assert.Equal(t, *fromCSV.Records[0], *fromXLSX.Records[0])
}

func TestIsMissing(t *testing.T) {
	for _, s := range []string{"", "  ", "NA", "NaN", "null", "None", "#N/A"} {
		assert.True(t, IsMissing(s), "%q", s)
	}
	for _, s := range []string{"0", "Free", "na-app"} {
		assert.False(t, IsMissing(s), "%q", s)
	}
}
