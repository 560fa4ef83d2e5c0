// Package aggregate rolls per-turn classifications up into a transcript summary.
package aggregate

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/physician-notetaker/internal/classify"
	"github.com/Veraticus/physician-notetaker/internal/dialogue"
)

// NoStatementsEvidence is the evidence of the empty summary.
const NoStatementsEvidence = "No patient statements found"

// Options tunes a summarization pass.
type Options struct {
	// EmptyLabel is the overall label reported when no turn qualifies.
	EmptyLabel string
	// Concurrency bounds the number of turns classified at once.
	Concurrency int
	// EvidenceLimit caps the overall evidence list.
	EvidenceLimit int
}

// DefaultOptions returns options suitable for the rule-based tables.
func DefaultOptions(emptyLabel string) Options {
	return Options{
		EmptyLabel:    emptyLabel,
		Concurrency:   4,
		EvidenceLimit: 5,
	}
}

// Count is the number of turns whose primary category was Label.
type Count struct {
	Label string
	Count int
}

// Statement is the classification of one patient turn.
type Statement struct {
	Text   string
	Result classify.Result
	Index  int
}

// Overall is the transcript-level rollup.
type Overall struct {
	Label      string
	Evidence   []string
	Confidence float64
}

// Summary is the result of classifying every patient turn of a transcript.
type Summary struct {
	Overall    Overall
	Counts     []Count
	Statements []Statement
	Total      int
}

// Empty reports whether the summary is the no-statements sentinel.
func (s Summary) Empty() bool { return s.Total == 0 }

// Labels returns the counted labels, most frequent first.
func (s Summary) Labels() []string {
	labels := make([]string, len(s.Counts))
	for i, c := range s.Counts {
		labels[i] = c.Label
	}
	return labels
}

// ByExcerpt returns the per-turn results keyed by dialogue.Excerpt of the
// turn text. Turns sharing an excerpt collapse to the last one; use
// Statements when every turn matters.
func (s Summary) ByExcerpt() map[string]classify.Result {
	out := make(map[string]classify.Result, len(s.Statements))
	for _, st := range s.Statements {
		out[dialogue.Excerpt(st.Text)] = st.Result
	}
	return out
}

// Summarize classifies every non-empty patient turn with analyzer and rolls the
// results up. Turns are classified concurrently but reported in transcript
// order. It never fails; a transcript without patient turns yields the empty
// summary.
func Summarize(ctx context.Context, turns []dialogue.Turn, analyzer classify.Analyzer, opts Options) Summary {
	patient := dialogue.PatientTurns(turns)
	if len(patient) == 0 {
		return emptySummary(opts.EmptyLabel)
	}

	statements := make([]Statement, len(patient))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i, turn := range patient {
		g.Go(func() error {
			statements[i] = Statement{
				Index:  turn.Index,
				Text:   turn.Text,
				Result: analyzer.Analyze(gctx, turn.Text),
			}
			return nil
		})
	}
	// Analyze never fails, so Wait only synchronizes.
	_ = g.Wait()

	return rollup(statements, opts)
}

// SummarizeText segments transcript and summarizes its patient turns.
func SummarizeText(ctx context.Context, transcript string, analyzer classify.Analyzer, opts Options) Summary {
	return Summarize(ctx, dialogue.Segment(transcript), analyzer, opts)
}

func rollup(statements []Statement, opts Options) Summary {
	counts := make([]Count, 0)
	position := make(map[string]int)
	var evidence []string
	seen := make(map[string]struct{})
	var total float64

	for _, st := range statements {
		label := st.Result.Primary
		if i, ok := position[label]; ok {
			counts[i].Count++
		} else {
			position[label] = len(counts)
			counts = append(counts, Count{Label: label, Count: 1})
		}

		for _, e := range st.Result.Evidence {
			if _, dup := seen[e]; dup || strings.TrimSpace(e) == "" {
				continue
			}
			seen[e] = struct{}{}
			evidence = append(evidence, e)
		}
		total += st.Result.Confidence
	}

	// Stable: equal counts keep first-occurrence order.
	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})

	if opts.EvidenceLimit > 0 && len(evidence) > opts.EvidenceLimit {
		evidence = evidence[:opts.EvidenceLimit]
	}

	return Summary{
		Counts:     counts,
		Statements: statements,
		Total:      len(statements),
		Overall: Overall{
			Label:      counts[0].Label,
			Confidence: total / float64(len(statements)),
			Evidence:   evidence,
		},
	}
}

func emptySummary(label string) Summary {
	return Summary{
		Counts:     []Count{},
		Statements: []Statement{},
		Overall: Overall{
			Label:      label,
			Confidence: 0.0,
			Evidence:   []string{NoStatementsEvidence},
		},
	}
}
