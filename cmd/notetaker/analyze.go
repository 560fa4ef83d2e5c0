package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/physician-notetaker/internal/cli"
	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/report"
)

func (a *app) analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [transcript]",
		Short: "Run the full analysis and write a report",
		Long: `Analyze a physician-patient transcript and write the full report.

The transcript is a text file with "Physician:" (or "Doctor:") and "Patient:"
speaker tags; bracketed lines such as [Physical Examination Conducted] are
kept as examination notes. Use "-" to read from stdin. Without a transcript
the built-in sample visit is analyzed.

Examples:
  notetaker analyze visit.txt
  notetaker analyze visit.txt --output report.yaml --format yaml
  cat visit.txt | notetaker analyze - --output -
  notetaker analyze visit.txt --llm --narrative`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runAnalyze,
	}

	cmd.Flags().StringP("output", "o", "", `report file ("-" for stdout, default from output.path)`)
	cmd.Flags().StringP("format", "f", "", "report format (json, yaml)")
	cmd.Flags().Bool("narrative", false, "add a narrative to the structured summary")
	cmd.Flags().Bool("llm", false, "classify statements with the language model backend")
	cmd.Flags().BoolP("quiet", "q", false, "do not print the report sections")

	_ = a.v.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = a.v.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	_ = a.v.BindPFlag("analysis.narrative", cmd.Flags().Lookup("narrative"))
	_ = a.v.BindPFlag("backend.enabled", cmd.Flags().Lookup("llm"))

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	quiet, _ := cmd.Flags().GetBool("quiet")
	toStdout := a.cfg.Output.Path == "-"

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interruptHandler.HandleInterrupts(cmd.Context(), true)
	defer interruptHandler.Stop()

	transcript, err := a.loadTranscript(ctx, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	progress := cli.NewStepProgress(cmd.ErrOrStderr(), len(report.Steps))
	assembler, err := a.newAssembler(progress.Step)
	if err != nil {
		return fmt.Errorf("failed to set up analysis: %w", err)
	}

	r, err := assembler.Analyze(ctx, transcript)
	if err != nil {
		if errors.Is(err, common.ErrEmptyTranscript) {
			return common.NewUserError("The transcript is empty", err)
		}
		if interruptHandler.WasInterrupted() {
			return nil
		}
		return fmt.Errorf("analysis failed: %w", err)
	}
	progress.Finish()

	if toStdout {
		return report.Encode(out, a.cfg.Output.Format, r)
	}

	if !quiet {
		renderReport(out, r)
	}

	if err := writeReport(a.cfg.Output.Path, a.cfg.Output.Format, r); err != nil {
		return common.NewUserError("Could not save the report", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Results saved to: "+a.cfg.Output.Path))
	return nil
}

func writeReport(path, format string, r *report.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	return report.Encode(f, format, r)
}
