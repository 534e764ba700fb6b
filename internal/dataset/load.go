package dataset

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// LoadOptions controls how input files are read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, '\t' is used for .tsv files and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; it wins over SheetIndex.
	SheetName string
	// SheetIndex is the 0-based XLSX sheet index used when SheetName is empty.
	SheetIndex int
}

// rawRecord mirrors the input header. Every cell is kept as text and coerced
// in toRecord so parse failures can name the column.
type rawRecord struct {
	AppID                 string `csv:"App_Id"`
	AppName               string `csv:"App_Name"`
	AppStoreURL           string `csv:"AppStore_Url"`
	PrimaryGenre          string `csv:"Primary_Genre"`
	ContentRating         string `csv:"Content_Rating"`
	SizeBytes             string `csv:"Size_Bytes"`
	RequiredIOSVersion    string `csv:"Required_IOS_Version"`
	Released              string `csv:"Released"`
	Updated               string `csv:"Updated"`
	Version               string `csv:"Version"`
	Price                 string `csv:"Price"`
	Currency              string `csv:"Currency"`
	Free                  string `csv:"Free"`
	DeveloperID           string `csv:"DeveloperId"`
	Developer             string `csv:"Developer"`
	DeveloperURL          string `csv:"Developer_Url"`
	DeveloperWebsite      string `csv:"Developer_Website"`
	AverageUserRating     string `csv:"Average_User_Rating"`
	Reviews               string `csv:"Reviews"`
	CurrentVersionScore   string `csv:"Current_Version_Score"`
	CurrentVersionReviews string `csv:"Current_Version_Reviews"`
}

// Load reads path into a Table, choosing the reader by file extension.
func Load(path string, opt LoadOptions) (*Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return LoadXLSX(path, opt)
	}
	return LoadCSV(path, opt)
}

// LoadCSV reads a delimited text file with a header row.
func LoadCSV(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.Comma = delim
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
		}
		return nil, &FileAccessError{Path: path, Err: err}
	}
	zap.L().Debug("dataset: reading csv", zap.String("path", path), zap.String("delimiter", string(delim)))
	return decodeRows(filepath.Base(path), header, r)
}

// LoadXLSX reads the selected sheet of an .xlsx workbook. The first row is the header.
func LoadXLSX(path string, opt LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	var sheet *xlsx.Sheet
	if opt.SheetName != "" {
		s, ok := wb.Sheet[opt.SheetName]
		if !ok {
			names := make([]string, 0, len(wb.Sheets))
			for _, s := range wb.Sheets {
				names = append(names, s.Name)
			}
			return nil, &SchemaError{Reason: "sheet " + opt.SheetName + " not found (available: " + strings.Join(names, ", ") + ")"}
		}
		sheet = s
	} else {
		if opt.SheetIndex < 0 || opt.SheetIndex >= len(wb.Sheets) {
			return nil, &SchemaError{Reason: "sheet index out of range"}
		}
		sheet = wb.Sheets[opt.SheetIndex]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		blank := true
		for j, c := range row.Cells {
			cells[j] = c.String()
			if strings.TrimSpace(cells[j]) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: append([]string(nil), RequiredColumns...)}
	}
	zap.L().Debug("dataset: reading xlsx", zap.String("path", path), zap.String("sheet", sheet.Name), zap.Int("rows", len(rows)-1))
	header := rows[0]
	return decodeRows(filepath.Base(path), header, &sheetReader{rows: rows[1:], width: len(header)})
}

// sheetReader feeds spreadsheet rows to csvutil, padding short rows to the header width.
type sheetReader struct {
	rows  [][]string
	width int
	next  int
}

func (s *sheetReader) Read() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	if len(row) < s.width {
		tmp := make([]string, s.width)
		copy(tmp, row)
		row = tmp
	}
	return row[:s.width], nil
}

func decodeRows(name string, header []string, r csvutil.Reader) (*Table, error) {
	clean := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		clean[i] = h
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &SchemaError{Missing: missing}
	}

	dec, err := csvutil.NewDecoder(r, clean...)
	if err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}
	t := &Table{Name: name, Columns: append([]string(nil), RequiredColumns...)}
	row := 0
	for {
		var raw rawRecord
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			return nil, &ParseError{Row: row, Err: err}
		}
		rec, err := toRecord(raw)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Row = row
			}
			return nil, err
		}
		t.Records = append(t.Records, rec)
	}
	zap.L().Debug("dataset: loaded", zap.String("name", name), zap.Int("rows", len(t.Records)))
	return t, nil
}

func toRecord(raw rawRecord) (*AppRecord, error) {
	rec := &AppRecord{
		AppID:              strings.TrimSpace(raw.AppID),
		AppName:            parseNullString(raw.AppName),
		AppStoreURL:        strings.TrimSpace(raw.AppStoreURL),
		PrimaryGenre:       strings.TrimSpace(raw.PrimaryGenre),
		ContentRating:      strings.TrimSpace(raw.ContentRating),
		RequiredIOSVersion: strings.TrimSpace(raw.RequiredIOSVersion),
		Released:           parseNullString(raw.Released),
		Updated:            parseNullString(raw.Updated),
		Version:            strings.TrimSpace(raw.Version),
		Currency:           strings.TrimSpace(raw.Currency),
		DeveloperID:        strings.TrimSpace(raw.DeveloperID),
		Developer:          strings.TrimSpace(raw.Developer),
		DeveloperURL:       parseNullString(raw.DeveloperURL),
		DeveloperWebsite:   parseNullString(raw.DeveloperWebsite),
	}
	floats := []struct {
		col string
		raw string
		dst *NullFloat
	}{
		{ColSizeBytes, raw.SizeBytes, &rec.SizeBytes},
		{ColPrice, raw.Price, &rec.Price},
		{ColAverageUserRating, raw.AverageUserRating, &rec.AverageUserRating},
		{ColCurrentVersionScore, raw.CurrentVersionScore, &rec.CurrentVersionScore},
	}
	for _, f := range floats {
		v, err := parseNullFloat(f.raw)
		if err != nil {
			return nil, &ParseError{Column: f.col, Value: f.raw, Err: err}
		}
		*f.dst = v
	}
	ints := []struct {
		col string
		raw string
		dst *NullInt
	}{
		{ColReviews, raw.Reviews, &rec.Reviews},
		{ColCurrentVersionReviews, raw.CurrentVersionReviews, &rec.CurrentVersionReviews},
	}
	for _, f := range ints {
		v, err := parseNullInt(f.raw)
		if err != nil {
			return nil, &ParseError{Column: f.col, Value: f.raw, Err: err}
		}
		*f.dst = v
	}
	free, err := parseNullBool(raw.Free)
	if err != nil {
		return nil, &ParseError{Column: ColFree, Value: raw.Free, Err: err}
	}
	rec.Free = free
	return rec, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
