package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/physician-notetaker/internal/report"
	"github.com/Veraticus/physician-notetaker/internal/soap"
)

func (a *app) soapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "soap [transcript]",
		Short: "Draft a SOAP note from a transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runSOAP,
	}

	cmd.Flags().StringP("format", "f", "text", "output format (text, json, yaml)")

	return cmd
}

func (a *app) runSOAP(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	transcript, err := a.loadTranscript(cmd.Context(), args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	note := soap.Generate(transcript)

	out := cmd.OutOrStdout()
	if format != "text" {
		return report.Encode(out, format, note)
	}
	fmt.Fprintln(out, note.Format())
	return nil
}
