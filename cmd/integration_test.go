package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/appscope-cli/internal/pipeline"
	"github.com/KaramelBytes/appscope-cli/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) error {
	t.Helper()
	// Reset bound variables; cobra keeps them across invocations
	cfg = nil
	cfgFile = ""
	anaOutputPath, anaCharts, anaOutDir, anaJSONPath, anaExportDB, anaDelimiter, anaSheetName = "", "", "", "", "", "", ""
	anaSheetIndex = 1
	abOutDir, abCharts, abExportDB, abDelimiter, abSheetName = "", "", "", "", ""
	abSheetIndex = 1
	abQuiet = false
	abConcurrency = 4
	insDelimiter, insSheetName = "", ""
	insSheetIndex = 1
	insJSON = false
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func mustRun(t *testing.T, args ...string) {
	t.Helper()
	require.NoError(t, runCmd(t, args...), "command %v", args)
}

// isolate points HOME at a temp dir so config and outputs stay inside the test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

const csvHeader = "App_Id,App_Name,AppStore_Url,Primary_Genre,Content_Rating,Size_Bytes,Required_IOS_Version,Released,Updated,Version,Price,Currency,Free,DeveloperId,Developer,Developer_Url,Developer_Website,Average_User_Rating,Reviews,Current_Version_Score,Current_Version_Reviews"

var csvRows = []string{
	"a.chess,Chess,u1,Games,4+,1000,12.0,2015-01-01T00:00:00Z,2020-01-01T00:00:00Z,1.0,0,USD,True,d1,Alpha,https://x/d1,https://alpha.dev,4.5,3000000,4.5,3000000",
	"a.tutor,Tutor,u2,Education,9+,3000,12.0,2016-01-01T00:00:00Z,2021-01-01T00:00:00Z,2.0,0.99,USD,False,d2,Beta,,,3.5,2000000,3.5,200",
	"a.words,Words,u3,Education,12+,,12.0,2017-06-01T00:00:00Z,,1.1,,USD,True,d1,Alpha,https://x/d1,,5,50,5,50",
	"a.noname,,u4,Games,17+,2000,12.0,2018-01-01T00:00:00Z,2019-01-01T00:00:00Z,1.0,0,USD,True,d3,Gamma,https://x/d3,,2,10,2,10",
	"a.norelease,Ghost,u5,Games,17+,2000,12.0,,2019-01-01T00:00:00Z,1.0,0,USD,True,d3,Gamma,https://x/d3,,2,10,2,10",
}

func writeCSV(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	body := csvHeader + "\n" + strings.Join(csvRows, "\n") + "\n"
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestCLI_AnalyzeWritesAllOutputs(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "apps.csv")
	outMD := filepath.Join(home, "out", "apps.md")
	outJSON := filepath.Join(home, "out", "apps.json")
	chartDir := filepath.Join(home, "charts")
	db := filepath.Join(home, "db", "apps.db")

	mustRun(t, "analyze", in, "-o", outMD, "--json", outJSON, "--out-dir", chartDir, "--export-db", db)

	md, err := os.ReadFile(outMD)
	require.NoError(t, err)
	s := string(md)
	for _, want := range []string{
		"File: apps.csv",
		"Rows: 3 (loaded 5)",
		"[MISSING VALUES BEFORE CLEANING]",
		"[NUMERIC SUMMARY]",
		"[TYPE]",
		"[TOP REVIEWED APPS]",
		"| 1 | Chess | Games | 3000000 |",
		"[TOP EDUCATION APPS]",
		"dropped column Developer_Website",
		"dropped 1 rows without App_Name",
		"dropped 1 rows without Released",
		"filled 1 missing Size_Bytes with median 2000",
		"filled 1 missing Price with the Size_Bytes median",
	} {
		assert.Contains(t, s, want)
	}

	var rep report.Report
	b, err := os.ReadFile(outJSON)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &rep))
	assert.Equal(t, 3, rep.Rows)
	assert.Len(t, rep.TopReviewed, 2)
	assert.NotEmpty(t, rep.Numeric)

	_, err = os.Stat(filepath.Join(chartDir, "apps.charts.html"))
	assert.NoError(t, err, "charts not written")
	_, err = os.Stat(db)
	assert.NoError(t, err, "database not written")
}

func TestCLI_AnalyzeChartsNone(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "apps.csv")
	chartDir := filepath.Join(home, "charts")
	mustRun(t, "analyze", in, "-o", filepath.Join(home, "apps.md"), "--charts", "none", "--out-dir", chartDir)
	_, err := os.Stat(chartDir)
	assert.True(t, os.IsNotExist(err), "expected no chart dir with --charts none")
	assert.Error(t, runCmd(t, "analyze", in, "--charts", "svg"))
}

func TestCLI_AnalyzeErrors(t *testing.T) {
	home := isolate(t)
	err := runCmd(t, "analyze", filepath.Join(home, "missing.csv"), "--charts", "none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot read")

	bad := filepath.Join(home, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("App_Id,App_Name\nx,y\n"), 0o644))
	err = runCmd(t, "analyze", bad, "--charts", "none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")

	assert.Error(t, runCmd(t, "analyze", bad, "--delimiter", "#"))
}

func TestCLI_AnalyzeBatchCollisionSuffix(t *testing.T) {
	home := isolate(t)
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		require.NoError(t, os.MkdirAll(d, 0o755))
		writeCSV(t, d, "apps.csv")
	}
	out := filepath.Join(home, "reports")
	db := filepath.Join(home, "batch.db")
	mustRun(t, "analyze-batch", filepath.Join(home, "d*", "apps.csv"), "--out-dir", out, "--charts", "none", "--quiet", "--export-db", db, "--concurrency", "2")
	_, err := os.Stat(db)
	require.NoError(t, err, "database not written")

	for _, name := range []string{"apps.report.md", "apps__2.report.md"} {
		b, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(b), "[DATASET SUMMARY]", name)
	}
	assert.Error(t, runCmd(t, "analyze-batch", filepath.Join(home, "nothing*.csv")))
}

func TestCLI_Inspect(t *testing.T) {
	home := isolate(t)
	in := writeCSV(t, home, "apps.csv")
	mustRun(t, "inspect", in)
	mustRun(t, "inspect", in, "--json")
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolate(t)
	mustRun(t, "config", "set", "top_developers", "7")
	mustRun(t, "config", "set", "chart_format", "none")
	mustRun(t, "config", "show")

	b, err := os.ReadFile(filepath.Join(home, ".appscope", "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "top_developers: 7")
	assert.Contains(t, string(b), "chart_format: none")
	assert.Error(t, runCmd(t, "config", "set", "top_developers", "-1"))
	assert.Error(t, runCmd(t, "config", "set", "bogus", "1"))
}

func TestCleanNotes_OnlyNonZero(t *testing.T) {
	assert.Empty(t, cleanNotes(&pipeline.Result{}))
	notes := cleanNotes(&pipeline.Result{Clean: pipeline.CleanStats{URLFilled: 2}})
	assert.Equal(t, []string{`filled 2 missing Developer_Url with "0"`}, notes)
}
