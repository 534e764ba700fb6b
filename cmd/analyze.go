package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/appscope-cli/internal/chart"
	cfgpkg "github.com/KaramelBytes/appscope-cli/internal/config"
	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"github.com/KaramelBytes/appscope-cli/internal/pipeline"
	"github.com/KaramelBytes/appscope-cli/internal/report"
	"github.com/KaramelBytes/appscope-cli/internal/store"
	"github.com/KaramelBytes/appscope-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	anaOutputPath string
	anaCharts     string
	anaOutDir     string
	anaJSONPath   string
	anaExportDB   string
	anaDelimiter  string
	anaSheetName  string
	anaSheetIndex int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Clean, enrich and summarize an App Store CSV/TSV/XLSX export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		path := args[0]
		lo, err := loadOptions(c, anaDelimiter, anaSheetName, anaSheetIndex)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		rep, t, err := analyzeFile(ctx, path, c, lo)
		if err != nil {
			return err
		}

		chartPath, err := writeCharts(rep, pick(anaCharts, c.ChartFormat), pick(anaOutDir, c.OutputDir), utils.BaseName(path))
		if err != nil {
			return err
		}
		if chartPath != "" {
			fmt.Printf("✓ Wrote charts to %s\n", chartPath)
		}
		if anaJSONPath != "" {
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaJSONPath, b); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
			fmt.Printf("✓ Wrote JSON report to %s\n", anaJSONPath)
		}
		if dsn := pick(anaExportDB, c.ExportDB); dsn != "" {
			runID, err := exportTable(ctx, dsn, t)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Exported %d apps to %s (run %s)\n", t.Len(), dsn, runID)
		}

		md := rep.Markdown()
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(md)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write analysis (Markdown)")
	analyzeCmd.Flags().StringVar(&anaCharts, "charts", "", "chart output: html | none (default from config)")
	analyzeCmd.Flags().StringVar(&anaOutDir, "out-dir", "", "directory for chart files (default from config)")
	analyzeCmd.Flags().StringVar(&anaJSONPath, "json", "", "optional path to write the report as JSON")
	analyzeCmd.Flags().StringVar(&anaExportDB, "export-db", "", "optional SQLite file to export the enriched table to")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

// analyzeFile runs load, audit, clean, enrich and report for one input file.
func analyzeFile(ctx context.Context, path string, c *cfgpkg.Global, lo dataset.LoadOptions) (*report.Report, *dataset.Table, error) {
	t, err := dataset.Load(path, lo)
	if err != nil {
		return nil, nil, err
	}
	audit := report.AuditTable(t)
	res, err := pipeline.Process(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	rep := report.Build(t, reportOptions(c))
	rep.Audit = audit
	rep.Notes = cleanNotes(res)
	zap.L().Info("analysis finished",
		zap.String("file", t.Name),
		zap.Int("rows_in", res.RowsIn),
		zap.Int("rows_out", res.RowsOut),
	)
	return rep, t, nil
}

func loadOptions(c *cfgpkg.Global, delimiter, sheetName string, sheetIndex int) (dataset.LoadOptions, error) {
	var lo dataset.LoadOptions
	d, err := parseDelimiter(pick(delimiter, c.Delimiter))
	if err != nil {
		return lo, err
	}
	lo.Delimiter = d
	lo.SheetName = sheetName
	if sheetIndex < 1 {
		return lo, fmt.Errorf("invalid --sheet-index: %d (must be >= 1)", sheetIndex)
	}
	lo.SheetIndex = sheetIndex - 1
	return lo, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s", s)
	}
}

func reportOptions(c *cfgpkg.Global) report.Options {
	opt := report.DefaultOptions()
	if c == nil {
		return opt
	}
	if c.TopReviewsChart > 0 {
		opt.TopReviewsChart = c.TopReviewsChart
	}
	if c.TopReviewsList > 0 {
		opt.TopReviewsList = c.TopReviewsList
	}
	if c.MillionThreshold > 0 {
		opt.MillionThreshold = c.MillionThreshold
	}
	if c.EducationGenre != "" {
		opt.EducationGenre = c.EducationGenre
	}
	if c.TopEducation > 0 {
		opt.TopEducation = c.TopEducation
	}
	if c.TopDevelopers > 0 {
		opt.TopDevelopers = c.TopDevelopers
	}
	if c.CrossTabTop > 0 {
		opt.CrossTabTop = c.CrossTabTop
	}
	return opt
}

func cleanNotes(res *pipeline.Result) []string {
	st := res.Clean
	var notes []string
	if st.DroppedWebsite {
		notes = append(notes, "dropped column "+dataset.ColDeveloperWebsite)
	}
	if st.DroppedNoName > 0 {
		notes = append(notes, fmt.Sprintf("dropped %d rows without %s", st.DroppedNoName, dataset.ColAppName))
	}
	if st.DroppedNoRelease > 0 {
		notes = append(notes, fmt.Sprintf("dropped %d rows without %s", st.DroppedNoRelease, dataset.ColReleased))
	}
	if st.SizeImputed > 0 {
		notes = append(notes, fmt.Sprintf("filled %d missing %s with median %.0f", st.SizeImputed, dataset.ColSizeBytes, st.SizeMedian))
	}
	if st.PriceImputed > 0 {
		notes = append(notes, fmt.Sprintf("filled %d missing %s with the %s median", st.PriceImputed, dataset.ColPrice, dataset.ColSizeBytes))
	}
	if st.URLFilled > 0 {
		notes = append(notes, fmt.Sprintf("filled %d missing %s with %q", st.URLFilled, dataset.ColDeveloperURL, pipeline.DeveloperURLPlaceholder))
	}
	return notes
}

// writeCharts renders rep with the sink selected by format and returns the
// written file, if any.
func writeCharts(rep *report.Report, format, outDir, base string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "html":
		if outDir == "" {
			outDir = "charts"
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return "", fmt.Errorf("create chart dir: %w", err)
		}
		path := filepath.Join(outDir, base+".charts.html")
		if err := chart.Render(rep, chart.NewHTML(path, "AppScope: "+rep.Name)); err != nil {
			return "", err
		}
		return path, nil
	case "none":
		return "", chart.Render(rep, &chart.Recorder{})
	default:
		return "", fmt.Errorf("unsupported --charts: %s (use html|none)", format)
	}
}

func openStore(ctx context.Context, dsn string) (*store.SQLite, error) {
	if err := utils.EnsureDir(filepath.Dir(dsn)); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.Open(ctx, dsn)
}

func exportTable(ctx context.Context, dsn string, t *dataset.Table) (string, error) {
	db, err := openStore(ctx, dsn)
	if err != nil {
		return "", err
	}
	defer db.Close()
	return db.Export(ctx, t)
}

// pick returns flag when set, otherwise the configured fallback.
func pick(flag, fallback string) string {
	if flag != "" {
		return flag
	}
	return fallback
}
