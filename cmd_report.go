package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"asset-grader/services"
)

var (
	reportRules     string
	reportFromRedis bool
	reportJSON      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarise the current rules",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportRules, "rules", "", "Rules file (defaults to RULES_PATH)")
	reportCmd.Flags().BoolVar(&reportFromRedis, "redis", false, "Read the current rules from Redis")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the summary as JSON")
}

func runReport(cmd *cobra.Command, args []string) error {
	file, err := loadRules(cmd.Context(), reportRules, reportFromRedis)
	if err != nil {
		return err
	}

	report := services.NewRulesReport(logger, os.Stdout)
	summary := report.Summarize(file)
	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
	report.Print(summary)
	return nil
}
