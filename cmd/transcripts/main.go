package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"support-bridge/internal/core/config"
	"support-bridge/internal/core/logger"
	adapter "support-bridge/internal/features/transcripts/adapters"
	"support-bridge/internal/features/transcripts/domain"
	"support-bridge/internal/features/transcripts/service"

	"github.com/spf13/cobra"
)

const trackerFile = "issue_tracker.json"

var (
	cfg      *config.AppConfig
	exporter *adapter.ConvocoreClient
)

var rootCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Export and triage conversational agent transcripts",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(".")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if cfg.Convocore.AgentID == "" || cfg.Convocore.APIKey == "" {
			return fmt.Errorf("CONVOCORE_AGENT_ID and CONVOCORE_API_KEY must be set")
		}
		exporter = adapter.NewConvocoreClient(cfg.Convocore, cfg.HTTP)
		return nil
	},
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download transcripts to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		convos, err := exporter.Export(cmd.Context(), pageSize)
		if err != nil {
			return err
		}

		records := make([]json.RawMessage, 0, len(convos))
		for _, convo := range convos {
			records = append(records, convo.Raw)
		}
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return err
		}

		fmt.Printf("Saved %d conversations to %s\n", len(convos), output)
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count conversations per month",
	RunE: func(cmd *cobra.Command, args []string) error {
		month, _ := cmd.Flags().GetString("month")

		recorder := service.NewRecorder(exporter, adapter.NewIssueStore(trackerFile))
		counts, err := recorder.CountByMonth(cmd.Context())
		if err != nil {
			return err
		}

		if month != "" {
			fmt.Printf("Conversations in %s: %d\n", month, counts[month])
			return nil
		}

		months := make([]string, 0, len(counts))
		for m := range counts {
			months = append(months, m)
		}
		sort.Strings(months)
		for _, m := range months {
			fmt.Printf("%s: %d\n", m, counts[m])
		}
		return nil
	},
}

var recordIssuesCmd = &cobra.Command{
	Use:   "record-issues <report.json>",
	Short: "Merge an analysis report into the issue tracker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleteFlag, _ := cmd.Flags().GetBool("delete")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read report: %w", err)
		}
		var items []domain.ReportItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("parse report: %w", err)
		}

		recorder := service.NewRecorder(exporter, adapter.NewIssueStore(trackerFile))
		summary, err := recorder.Record(cmd.Context(), items, service.RecordOptions{
			Delete: deleteFlag,
			DryRun: dryRun,
		})
		if err != nil {
			return err
		}

		if summary.NewIssues == 0 && summary.DeletionsAttempted == 0 {
			fmt.Println("No new issues found in the report.")
			return nil
		}
		fmt.Printf("Added %d new issues to the tracker.\n", summary.NewIssues)
		if summary.DeletionsAttempted > 0 {
			fmt.Printf("Deletions: %d/%d successful.\n",
				summary.DeletionsSuccessful, summary.DeletionsAttempted)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringP("output", "o", "sample_transcripts.json", "output file")
	fetchCmd.Flags().Int("page-size", 0, "limit the export to the newest N conversations")

	countCmd.Flags().String("month", "", "count a single month (YYYY-MM)")

	recordIssuesCmd.Flags().Bool("delete", false, "delete technical-error conversations from the platform")
	recordIssuesCmd.Flags().Bool("dry-run", false, "report actions without writing or deleting")

	rootCmd.AddCommand(fetchCmd, countCmd, recordIssuesCmd)
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
