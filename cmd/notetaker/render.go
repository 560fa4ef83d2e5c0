package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/physician-notetaker/internal/cli"
	"github.com/Veraticus/physician-notetaker/internal/entities"
	"github.com/Veraticus/physician-notetaker/internal/report"
)

// renderReport prints the six report sections as boxes.
func renderReport(w io.Writer, r *report.Report) {
	fmt.Fprintln(w, cli.FormatTitle("Transcript Analysis"))

	sections := []struct {
		title string
		body  string
	}{
		{"1. Medical Entities", recordFields(r.MedicalEntities)},
		{"2. Structured Summary", summaryBody(r)},
		{"3. Keywords", keywordsBody(r.Keywords)},
		{"4. Sentiment Analysis", cli.FormatFields([]cli.Field{
			{Label: "Sentiment", Value: r.Sentiment.Sentiment},
			{Label: "Confidence", Value: fmt.Sprintf("%.3f", r.Sentiment.Confidence)},
			{Label: "Indicators", Value: strings.Join(r.Sentiment.Indicators, ", ")},
		})},
		{"5. Intent Detection", intentBody(r.Intent)},
		{"6. SOAP Note", r.SOAP.Format()},
	}

	for _, s := range sections {
		fmt.Fprintln(w, cli.RenderBox(s.title, s.body))
	}
}

func recordFields(rec entities.Record) string {
	return cli.FormatFields([]cli.Field{
		{Label: "Patient", Value: rec.PatientName},
		{Label: "Symptoms", Value: joinOr(rec.Symptoms, entities.NotSpecified)},
		{Label: "Diagnosis", Value: rec.Diagnosis},
		{Label: "Treatment", Value: joinOr(rec.Treatment, entities.NotSpecified)},
		{Label: "Current status", Value: rec.CurrentStatus},
		{Label: "Prognosis", Value: rec.Prognosis},
	})
}

func summaryBody(r *report.Report) string {
	body := recordFields(r.StructuredSummary.Record)
	if r.StructuredSummary.Narrative != "" {
		body += "\n\n" + r.StructuredSummary.Narrative
	}
	return body
}

func keywordsBody(k report.Keywords) string {
	top := make([]string, len(k.TopKeywords))
	for i, kw := range k.TopKeywords {
		top[i] = fmt.Sprintf("%s (%.1f)", kw.Text, kw.Score)
	}
	return cli.LabelStyle.Render("Medical phrases") + "\n" +
		cli.FormatList(k.MedicalPhrases, "None found") + "\n" +
		cli.LabelStyle.Render("Top keywords") + "\n" +
		cli.FormatList(top, "None found")
}

func intentBody(in report.IntentAnalysis) string {
	samples := make([]string, len(in.SampleDetections))
	for i, d := range in.SampleDetections {
		samples[i] = fmt.Sprintf("%q → %s (%.2f)", d.Statement, d.Intent, d.Confidence)
	}
	return cli.LabelStyle.Render("Primary intents") + "\n" +
		cli.FormatList(in.PrimaryIntents, "None detected") + "\n" +
		cli.LabelStyle.Render("Sample detections") + "\n" +
		cli.FormatList(samples, "None")
}

func joinOr(items []string, placeholder string) string {
	if len(items) == 0 {
		return placeholder
	}
	return strings.Join(items, ", ")
}
