package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/physician-notetaker/internal/cli"
	"github.com/Veraticus/physician-notetaker/internal/dialogue"
	"github.com/Veraticus/physician-notetaker/internal/report"
)

// turnView is the encoded form of a dialogue turn.
type turnView struct {
	Speaker    string `json:"speaker" yaml:"speaker"`
	Text       string `json:"text" yaml:"text"`
	Index      int    `json:"index" yaml:"index"`
	Annotation bool   `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

func (a *app) segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment [transcript]",
		Short: "Split a transcript into speaker turns",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runSegment,
	}

	cmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")
	cmd.Flags().Bool("patient", false, "only show patient turns")

	return cmd
}

func (a *app) runSegment(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	patientOnly, _ := cmd.Flags().GetBool("patient")

	transcript, err := a.loadTranscript(cmd.Context(), args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	turns := dialogue.Segment(transcript)
	if patientOnly {
		turns = dialogue.PatientTurns(turns)
	}

	out := cmd.OutOrStdout()
	if format != "text" {
		views := make([]turnView, len(turns))
		for i, t := range turns {
			views[i] = turnView{Speaker: string(t.Speaker), Text: t.Text, Index: t.Index, Annotation: t.Annotation}
		}
		return report.Encode(out, format, views)
	}

	for _, t := range turns {
		speaker := cli.LabelStyle.Render(fmt.Sprintf("[%d] %s:", t.Index, t.Speaker))
		fmt.Fprintf(out, "%s %s\n", speaker, t.Text)
	}
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%d turns", len(turns))))
	return nil
}
