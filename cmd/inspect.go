package cmd

import (
	"fmt"

	"github.com/KaramelBytes/appscope-cli/internal/dataset"
	"github.com/KaramelBytes/appscope-cli/internal/report"
	"github.com/KaramelBytes/appscope-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	insDelimiter  string
	insSheetName  string
	insSheetIndex int
	insJSON       bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Load a file and print missing/unique counts before any cleaning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		lo, err := loadOptions(c, insDelimiter, insSheetName, insSheetIndex)
		if err != nil {
			return err
		}
		t, err := dataset.Load(args[0], lo)
		if err != nil {
			return err
		}
		audit := report.AuditTable(t)
		if insJSON {
			b, err := utils.PrettyJSON(audit)
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		fmt.Println(audit.Markdown(t.Name))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
	inspectCmd.Flags().StringVar(&insSheetName, "sheet-name", "", "XLSX: sheet name to inspect")
	inspectCmd.Flags().IntVar(&insSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	inspectCmd.Flags().BoolVar(&insJSON, "json", false, "print the audit as JSON")
}
