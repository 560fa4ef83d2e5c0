package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/physician-notetaker/internal/cli"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/report"
)

func (a *app) classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <statement>",
		Short: "Classify the sentiment and intent of one patient statement",
		Long: `Classify a single patient statement.

Examples:
  notetaker classify "I'm a bit worried about my back pain, but I hope it gets better soon."
  notetaker classify --format json "Thank you, doctor. I appreciate it."`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runClassify,
	}

	cmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")

	return cmd
}

func (a *app) runClassify(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	statement := strings.Join(args, " ")
	if strings.TrimSpace(statement) == "" {
		return common.NewUserError("The statement is empty", common.ErrEmptyTranscript)
	}

	assembler, err := a.newAssembler(nil)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}
	result := assembler.AnalyzeStatement(cmd.Context(), statement)

	out := cmd.OutOrStdout()
	if format != "text" {
		return report.Encode(out, format, result)
	}

	fmt.Fprintln(out, cli.RenderBox("Statement Analysis", cli.FormatFields([]cli.Field{
		{Label: "Statement", Value: statement},
		{Label: "Sentiment", Value: fmt.Sprintf("%s (%.2f)", result.Sentiment, result.SentimentConfidence)},
		{Label: "Intent", Value: fmt.Sprintf("%s (%.2f)", result.Intent, result.IntentConfidence)},
	})))
	return nil
}
