package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/KaramelBytes/appscope-cli/internal/store"
	"github.com/KaramelBytes/appscope-cli/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abOutDir      string
	abCharts      string
	abExportDB    string
	abDelimiter   string
	abSheetName   string
	abSheetIndex  int
	abQuiet       bool
	abConcurrency int
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX exports and write one report per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		lo, err := loadOptions(c, abDelimiter, abSheetName, abSheetIndex)
		if err != nil {
			return err
		}
		outDir := pick(abOutDir, c.OutputDir)
		if outDir == "" {
			outDir = "charts"
		}
		if err := utils.EnsureDir(outDir); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		var db *store.SQLite
		ctx := cmd.Context()
		if dsn := pick(abExportDB, c.ExportDB); dsn != "" {
			d, err := openStore(ctx, dsn)
			if err != nil {
				return err
			}
			defer d.Close()
			db = d
		}
		concurrency := abConcurrency
		if concurrency < 1 {
			concurrency = 1
		}

		bases := assignBases(outDir, files)
		format := pick(abCharts, c.ChartFormat)
		total := len(files)
		var done atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				rep, t, err := analyzeFile(gctx, path, c, lo)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if _, err := writeCharts(rep, format, outDir, bases[i]); err != nil {
					return err
				}
				outFile := filepath.Join(outDir, bases[i]+".report.md")
				if err := utils.SafeWriteFile(outFile, []byte(rep.Markdown())); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				var runID string
				if db != nil {
					if runID, err = db.Export(gctx, t); err != nil {
						return err
					}
				}
				n := done.Add(1)
				if !abQuiet {
					fmt.Printf("[%d/%d] ✓ %s -> %s\n", n, total, filepath.Base(path), outFile)
					if runID != "" {
						fmt.Printf("  exported run %s\n", runID)
					}
				}
				return nil
			})
		}
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory for reports and charts (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abCharts, "charts", "", "chart output: html | none (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abExportDB, "export-db", "", "optional SQLite file to export every enriched table to")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	analyzeBatchCmd.Flags().StringVar(&abSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeBatchCmd.Flags().IntVar(&abSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	analyzeBatchCmd.Flags().IntVar(&abConcurrency, "concurrency", 4, "number of files analyzed in parallel")
}

// expandInputs resolves globs and literal paths into a sorted, de-duplicated list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// assignBases picks a report base name per file, adding __N suffixes for names
// already on disk or already taken earlier in files.
func assignBases(dir string, files []string) []string {
	taken := map[string]bool{}
	out := make([]string, len(files))
	for i, f := range files {
		base := utils.BaseName(f)
		cand := base
		for idx := 2; taken[cand] || exists(filepath.Join(dir, cand+".report.md")); idx++ {
			cand = fmt.Sprintf("%s__%d", base, idx)
		}
		taken[cand] = true
		out[i] = cand
	}
	return out
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
