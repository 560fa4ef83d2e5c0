// Package report assembles the full analysis of a transcript and encodes it.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/entities"
	"github.com/Veraticus/physician-notetaker/internal/keywords"
	"github.com/Veraticus/physician-notetaker/internal/soap"
	"github.com/Veraticus/physician-notetaker/internal/summary"
)

// Output formats understood by Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	topKeywords      = 10
	topIntents       = 3
	sampleDetections = 3
)

// Report is the complete analysis of one transcript.
type Report struct {
	GeneratedAt       time.Time       `json:"generated_at" yaml:"generated_at"`
	ID                string          `json:"id" yaml:"id"`
	MedicalEntities   entities.Record `json:"medical_entities" yaml:"medical_entities"`
	StructuredSummary summary.Summary `json:"structured_summary" yaml:"structured_summary"`
	Keywords          Keywords        `json:"keywords" yaml:"keywords"`
	Sentiment         Sentiment       `json:"sentiment_analysis" yaml:"sentiment_analysis"`
	Intent            IntentAnalysis  `json:"intent_analysis" yaml:"intent_analysis"`
	SOAP              soap.Note       `json:"soap_note" yaml:"soap_note"`
}

// Keywords lists the medical phrases and best ranked keywords.
type Keywords struct {
	MedicalPhrases []string           `json:"medical_phrases" yaml:"medical_phrases"`
	TopKeywords    []keywords.Keyword `json:"top_keywords" yaml:"top_keywords"`
}

// Sentiment is the overall patient sentiment.
type Sentiment struct {
	Sentiment  string   `json:"Sentiment" yaml:"Sentiment"`
	Indicators []string `json:"Indicators" yaml:"Indicators"`
	Confidence float64  `json:"Confidence" yaml:"Confidence"`
}

// IntentAnalysis lists the most frequent patient intents and a few example
// detections.
type IntentAnalysis struct {
	PrimaryIntents   []string    `json:"primary_intents" yaml:"primary_intents"`
	SampleDetections []Detection `json:"sample_detections" yaml:"sample_detections"`
}

// Detection is the intent found in one patient statement.
type Detection struct {
	Statement  string  `json:"statement" yaml:"statement"`
	Intent     string  `json:"intent" yaml:"intent"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// StatementAnalysis is the sentiment and intent of a single statement.
type StatementAnalysis struct {
	Sentiment           string  `json:"Sentiment" yaml:"Sentiment"`
	Intent              string  `json:"Intent" yaml:"Intent"`
	SentimentConfidence float64 `json:"Sentiment_Confidence" yaml:"Sentiment_Confidence"`
	IntentConfidence    float64 `json:"Intent_Confidence" yaml:"Intent_Confidence"`
}

// Encode writes v to w as json or yaml.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported output format %q", common.ErrInvalidConfig, format)
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
