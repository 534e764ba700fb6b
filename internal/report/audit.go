package report

import "github.com/KaramelBytes/appscope-cli/internal/dataset"

// ColumnAudit is the missing/unique profile of one column.
type ColumnAudit struct {
	Name    string `json:"name"`
	Missing int    `json:"missing"`
	Unique  int    `json:"unique"`
}

// Audit profiles a table before cleaning.
type Audit struct {
	Rows              int           `json:"rows"`
	Columns           []ColumnAudit `json:"columns"`
	DuplicateAppIDs   int           `json:"duplicate_app_ids"`
	DuplicateAppNames int           `json:"duplicate_app_names"`
}

// AuditTable counts missing and distinct values per live column and the
// repeated App_Id / App_Name rows (every occurrence after the first).
func AuditTable(t *dataset.Table) *Audit {
	a := &Audit{Rows: t.Len()}
	for _, col := range t.Columns {
		ca := ColumnAudit{Name: col}
		seen := map[string]struct{}{}
		for _, r := range t.Records {
			v, ok := r.Value(col)
			if !ok {
				ca.Missing++
				continue
			}
			seen[v] = struct{}{}
		}
		ca.Unique = len(seen)
		a.Columns = append(a.Columns, ca)
	}
	a.DuplicateAppIDs = duplicates(t, dataset.ColAppID)
	a.DuplicateAppNames = duplicates(t, dataset.ColAppName)
	return a
}

func duplicates(t *dataset.Table, col string) int {
	seen := map[string]struct{}{}
	missingSeen := false
	dup := 0
	for _, r := range t.Records {
		v, ok := r.Value(col)
		if !ok {
			if missingSeen {
				dup++
			}
			missingSeen = true
			continue
		}
		if _, ok := seen[v]; ok {
			dup++
			continue
		}
		seen[v] = struct{}{}
	}
	return dup
}

// MissingCounts returns the columns that have at least one missing value, most missing first.
func (a *Audit) MissingCounts() []Count {
	counts := map[string]int{}
	for _, c := range a.Columns {
		if c.Missing > 0 {
			counts[c.Name] = c.Missing
		}
	}
	return sortCounts(counts, 0)
}
