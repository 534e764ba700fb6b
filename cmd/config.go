package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/appscope-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set AppScope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		fmt.Printf("output_dir: %s\n", c.OutputDir)
		fmt.Printf("chart_format: %s\n", c.ChartFormat)
		if c.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", c.Delimiter)
		}
		if c.ExportDB != "" {
			fmt.Printf("export_db: %s\n", c.ExportDB)
		}
		fmt.Printf("top_reviews_chart: %d\n", c.TopReviewsChart)
		fmt.Printf("top_reviews_list: %d\n", c.TopReviewsList)
		fmt.Printf("million_threshold: %d\n", c.MillionThreshold)
		fmt.Printf("education_genre: %s\n", c.EducationGenre)
		fmt.Printf("top_education: %d\n", c.TopEducation)
		fmt.Printf("top_developers: %d\n", c.TopDevelopers)
		fmt.Printf("crosstab_top: %d\n", c.CrossTabTop)
		fmt.Printf("log_level: %s\n", c.LogLevel)
		fmt.Printf("log_format: %s\n", c.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings()
		if err != nil {
			return err
		}
		if err := applySetting(c, args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func applySetting(c *cfgpkg.Global, key, val string) error {
	positive := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i <= 0 {
			return 0, fmt.Errorf("invalid positive int for %s: %v", key, val)
		}
		return i, nil
	}
	switch key {
	case "output_dir":
		c.OutputDir = val
	case "chart_format":
		switch strings.ToLower(val) {
		case "html", "none":
			c.ChartFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid chart_format: %s (use html or none)", val)
		}
	case "delimiter":
		if _, err := parseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "export_db":
		c.ExportDB = val
	case "education_genre":
		c.EducationGenre = val
	case "log_level":
		switch val {
		case "debug", "info", "warn", "error":
			c.LogLevel = val
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "log_format":
		switch val {
		case "console", "json":
			c.LogFormat = val
		default:
			return fmt.Errorf("invalid log_format: %s (use console or json)", val)
		}
	case "million_threshold":
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for million_threshold: %v", val)
		}
		c.MillionThreshold = i
	case "top_reviews_chart", "top_reviews_list", "top_education", "top_developers", "crosstab_top":
		i, err := positive()
		if err != nil {
			return err
		}
		switch key {
		case "top_reviews_chart":
			c.TopReviewsChart = i
		case "top_reviews_list":
			c.TopReviewsList = i
		case "top_education":
			c.TopEducation = i
		case "top_developers":
			c.TopDevelopers = i
		case "crosstab_top":
			c.CrossTabTop = i
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}
