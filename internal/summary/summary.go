// Package summary builds the structured visit summary and its narrative.
package summary

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Veraticus/physician-notetaker/internal/common"
	"github.com/Veraticus/physician-notetaker/internal/dialogue"
	"github.com/Veraticus/physician-notetaker/internal/entities"
)

// NoSummary is the narrative of a transcript without patient statements.
const NoSummary = "No summary available."

const narrativeSentences = 5

// Narrator writes an abstractive narrative of a transcript.
type Narrator interface {
	Narrate(ctx context.Context, transcript string) (string, error)
}

// Summary is the structured report of a visit.
type Summary struct {
	entities.Record `yaml:",inline"`
	Narrative       string `json:"Narrative_Summary,omitempty" yaml:"Narrative_Summary,omitempty"`
}

// Summarizer builds summaries, using a Narrator for the narrative when one is
// configured.
type Summarizer struct {
	narrator Narrator
	logger   *slog.Logger
}

// New creates a summarizer. narrator may be nil.
func New(narrator Narrator, logger *slog.Logger) *Summarizer {
	return &Summarizer{
		narrator: narrator,
		logger:   common.OrDefault(logger),
	}
}

// Summarize builds the structured summary of a visit from its entities. The
// narrative is only produced when narrative is set.
func (s *Summarizer) Summarize(ctx context.Context, transcript string, found entities.Entities, narrative bool) Summary {
	out := Summary{Record: found.Record()}
	if narrative {
		out.Narrative = s.Narrative(ctx, transcript)
	}
	return out
}

// Narrative returns an abstractive narrative when the narrator succeeds and
// an extractive one otherwise.
func (s *Summarizer) Narrative(ctx context.Context, transcript string) string {
	if s.narrator != nil {
		text, err := s.narrator.Narrate(ctx, transcript)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		if err != nil {
			s.logger.Warn("Narrative generation failed, using extractive summary", "error", err)
		}
	}
	return Extractive(dialogue.Segment(transcript))
}

// Extractive joins the first sentences the patient spoke.
func Extractive(turns []dialogue.Turn) string {
	joined := strings.Join(dialogue.Texts(dialogue.PatientTurns(turns)), " ")

	sentences := strings.Split(joined, ".")
	if len(sentences) > narrativeSentences {
		sentences = sentences[:narrativeSentences]
	}

	var kept []string
	for _, s := range sentences {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return NoSummary
	}
	return strings.Join(kept, ". ") + "."
}
